package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// SplitInputDTO defines a single participant entry in a split definition.
// Amount is required for custom splits, Percentage for percentage splits;
// equal splits need only the user ID.
type SplitInputDTO struct {
	UserID     string          `json:"userID" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// CreateExpenseRequest defines data for creating a new expense. GroupID is
// populated from the route, not the body.
type CreateExpenseRequest struct {
	GroupID     string             `json:"-"`
	Title       string             `json:"title" binding:"required,max=200"`
	Amount      decimal.Decimal    `json:"amount" binding:"required,dgt0"`
	PaidBy      string             `json:"paidBy" binding:"required"`
	SplitMethod domain.SplitMethod `json:"splitMethod" binding:"required,oneof=equal percentage custom"`
	Splits      []SplitInputDTO    `json:"splits" binding:"required,min=1,dive"`
	Category    string             `json:"category"`
	Note        string             `json:"note"`
	Date        time.Time          `json:"date" binding:"required"`
}

// UpdateExpenseRequest defines data for replacing an expense's fields and splits.
type UpdateExpenseRequest struct {
	Title       string             `json:"title" binding:"required,max=200"`
	Amount      decimal.Decimal    `json:"amount" binding:"required,dgt0"`
	PaidBy      string             `json:"paidBy" binding:"required"`
	SplitMethod domain.SplitMethod `json:"splitMethod" binding:"required,oneof=equal percentage custom"`
	Splits      []SplitInputDTO    `json:"splits" binding:"required,min=1,dive"`
	Category    string             `json:"category"`
	Note        string             `json:"note"`
	Date        time.Time          `json:"date" binding:"required"`
}

// SplitResponse defines the data returned for a single split.
type SplitResponse struct {
	SplitID    string          `json:"splitID"`
	UserID     string          `json:"userID"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ExpenseResponse defines the data returned for an expense with its splits.
type ExpenseResponse struct {
	ExpenseID   string             `json:"expenseID"`
	GroupID     string             `json:"groupID"`
	Title       string             `json:"title"`
	Amount      decimal.Decimal    `json:"amount"`
	PaidBy      string             `json:"paidBy"`
	SplitMethod domain.SplitMethod `json:"splitMethod"`
	Category    string             `json:"category,omitempty"`
	Note        string             `json:"note,omitempty"`
	Date        time.Time          `json:"date"`
	Splits      []SplitResponse    `json:"splits"`
	CreatedAt   time.Time          `json:"createdAt"`
	CreatedBy   string             `json:"createdBy"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	splits := make([]SplitResponse, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = SplitResponse{
			SplitID:    s.SplitID,
			UserID:     s.UserID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
		}
	}
	return ExpenseResponse{
		ExpenseID:   e.ExpenseID,
		GroupID:     e.GroupID,
		Title:       e.Title,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		SplitMethod: e.SplitMethod,
		Category:    e.Category,
		Note:        e.Note,
		Date:        e.Date,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListExpensesResponse wraps a page of expenses with the token for the next page.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken string            `json:"nextToken,omitempty"`
}

// ToListExpensesResponse converts a slice of domain.Expense to DTO.
func ToListExpensesResponse(es []domain.Expense, nextToken string) ListExpensesResponse {
	list := make([]ExpenseResponse, len(es))
	for i, e := range es {
		list[i] = ToExpenseResponse(&e)
	}
	return ListExpensesResponse{Expenses: list, NextToken: nextToken}
}

// NetBalanceResponse defines a member's net position within a group.
type NetBalanceResponse struct {
	UserID  string          `json:"userID"`
	Balance decimal.Decimal `json:"balance"`
}

// GroupBalancesResponse wraps the net balances of a group.
type GroupBalancesResponse struct {
	GroupID      string               `json:"groupID"`
	CurrencyCode string               `json:"currencyCode"`
	Balances     []NetBalanceResponse `json:"balances"`
}

// ToGroupBalancesResponse converts net balances to DTO.
func ToGroupBalancesResponse(groupID, currencyCode string, bs []domain.NetBalance) GroupBalancesResponse {
	list := make([]NetBalanceResponse, len(bs))
	for i, b := range bs {
		list[i] = NetBalanceResponse{UserID: b.UserID, Balance: b.Balance}
	}
	return GroupBalancesResponse{GroupID: groupID, CurrencyCode: currencyCode, Balances: list}
}
