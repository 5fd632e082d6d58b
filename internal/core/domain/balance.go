package domain

import "github.com/shopspring/decimal"

// NetBalance is a member's signed aggregate position within a group:
// total paid minus total owed, adjusted by confirmed settlements.
// Positive means the group owes the member; negative means the member owes.
// Derived, never persisted.
type NetBalance struct {
	UserID  string          `json:"userID"`
	Balance decimal.Decimal `json:"balance"`
}

// GroupBalance is the pairwise balance between two specific users within one
// group, carried with the group's currency label. Positive means the friend
// owes the user (from the perspective of the user the query was made for).
type GroupBalance struct {
	GroupID      string          `json:"groupID"`
	GroupName    string          `json:"groupName"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// CurrencyBalance totals pairwise balances per currency label. Balances in
// different currencies are never combined.
type CurrencyBalance struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// SettlementSuggestion is one payer->payee transaction produced by debt
// simplification.
type SettlementSuggestion struct {
	FromUserID string          `json:"fromUserID"`
	ToUserID   string          `json:"toUserID"`
	Amount     decimal.Decimal `json:"amount"`
}

// Allocation is one group's share of a cross-group friend settlement.
type Allocation struct {
	GroupID    string          `json:"groupID"`
	GroupName  string          `json:"groupName"`
	FromUserID string          `json:"fromUserID"`
	ToUserID   string          `json:"toUserID"`
	Amount     decimal.Decimal `json:"amount"`
}
