package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus indicates the state of a recorded payment.
// Transitions are one-way: pending -> confirmed. Either state may be
// deleted, which removes the record entirely.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementConfirmed SettlementStatus = "confirmed"
)

// Settlement is a recorded (possibly unconfirmed) payment from a debtor to
// a creditor within one group, intended to reduce their pairwise balance.
//
// Only confirmed settlements count toward balances. At most one pending
// settlement may exist per pair of users per group.
type Settlement struct {
	SettlementID string           `json:"settlementID"` // Primary Key (UUID)
	GroupID      string           `json:"groupID"`
	FromUserID   string           `json:"fromUserID"` // debtor, the one who paid
	ToUserID     string           `json:"toUserID"`   // creditor, the one who received
	Amount       decimal.Decimal  `json:"amount"`
	Status       SettlementStatus `json:"status"`
	Note         string           `json:"note,omitempty"`
	RecordedBy   string           `json:"recordedBy"`
	ConfirmedAt  *time.Time       `json:"confirmedAt,omitempty"`
	AuditFields
}

// Friendship links two users who share at least one group or were added
// explicitly. The pair is stored in canonical order (UserAID < UserBID).
type Friendship struct {
	FriendshipID string    `json:"friendshipID"`
	UserAID      string    `json:"userAID"`
	UserBID      string    `json:"userBID"`
	CreatedAt    time.Time `json:"createdAt"`
}
