package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus identifies the lifecycle state of a settlement.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementConfirmed SettlementStatus = "confirmed"
)

// Settlement represents a settlement row. FromUserID is the debtor paying
// ToUserID, the creditor.
type Settlement struct {
	SettlementID string           `db:"settlement_id"`
	GroupID      string           `db:"group_id"`
	FromUserID   string           `db:"from_user_id"`
	ToUserID     string           `db:"to_user_id"`
	Amount       decimal.Decimal  `db:"amount"`
	Status       SettlementStatus `db:"status"`
	Note         sql.NullString   `db:"note"`
	RecordedBy   string           `db:"recorded_by"`
	ConfirmedAt  *time.Time       `db:"confirmed_at"`
	AuditFields
}

// Friendship represents a friendship row. UserAID always sorts before UserBID
// so each pair has a single canonical row.
type Friendship struct {
	FriendshipID string    `db:"friendship_id"`
	UserAID      string    `db:"user_a_id"`
	UserBID      string    `db:"user_b_id"`
	CreatedAt    time.Time `db:"created_at"`
}
