package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// RecordSettlementRequest defines data for recording a payment between two
// group members. FromUserID pays ToUserID. GroupID is populated from the
// route, not the body.
type RecordSettlementRequest struct {
	GroupID    string          `json:"-"`
	FromUserID string          `json:"fromUserID" binding:"required"`
	ToUserID   string          `json:"toUserID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Note       string          `json:"note"`
}

// SettlementResponse defines the data returned for a settlement.
type SettlementResponse struct {
	SettlementID string                  `json:"settlementID"`
	GroupID      string                  `json:"groupID"`
	FromUserID   string                  `json:"fromUserID"`
	ToUserID     string                  `json:"toUserID"`
	Amount       decimal.Decimal         `json:"amount"`
	Status       domain.SettlementStatus `json:"status"`
	Note         string                  `json:"note,omitempty"`
	RecordedBy   string                  `json:"recordedBy"`
	ConfirmedAt  *time.Time              `json:"confirmedAt,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// ToSettlementResponse converts a domain.Settlement to SettlementResponse DTO.
func ToSettlementResponse(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		SettlementID: s.SettlementID,
		GroupID:      s.GroupID,
		FromUserID:   s.FromUserID,
		ToUserID:     s.ToUserID,
		Amount:       s.Amount,
		Status:       s.Status,
		Note:         s.Note,
		RecordedBy:   s.RecordedBy,
		ConfirmedAt:  s.ConfirmedAt,
		CreatedAt:    s.CreatedAt,
	}
}

// ListSettlementsResponse wraps a list of settlements.
type ListSettlementsResponse struct {
	Settlements []SettlementResponse `json:"settlements"`
}

// ToListSettlementsResponse converts a slice of domain.Settlement to DTO.
func ToListSettlementsResponse(ss []domain.Settlement) ListSettlementsResponse {
	list := make([]SettlementResponse, len(ss))
	for i, s := range ss {
		list[i] = ToSettlementResponse(&s)
	}
	return ListSettlementsResponse{Settlements: list}
}

// SettlementSuggestionResponse defines a single transfer in a simplified plan.
type SettlementSuggestionResponse struct {
	FromUserID string          `json:"fromUserID"`
	ToUserID   string          `json:"toUserID"`
	Amount     decimal.Decimal `json:"amount"`
}

// SimplifiedSettlementsResponse wraps the minimal transfer plan for a group.
type SimplifiedSettlementsResponse struct {
	GroupID     string                         `json:"groupID"`
	Suggestions []SettlementSuggestionResponse `json:"suggestions"`
}

// ToSimplifiedSettlementsResponse converts suggestions to DTO.
func ToSimplifiedSettlementsResponse(groupID string, sgs []domain.SettlementSuggestion) SimplifiedSettlementsResponse {
	list := make([]SettlementSuggestionResponse, len(sgs))
	for i, s := range sgs {
		list[i] = SettlementSuggestionResponse{
			FromUserID: s.FromUserID,
			ToUserID:   s.ToUserID,
			Amount:     s.Amount,
		}
	}
	return SimplifiedSettlementsResponse{GroupID: groupID, Suggestions: list}
}
