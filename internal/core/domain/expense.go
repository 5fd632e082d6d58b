package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitMethod indicates how an expense total is divided among participants.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitPercentage SplitMethod = "percentage"
	SplitCustom     SplitMethod = "custom"
)

// Expense represents money paid by one group member on behalf of several.
// Expenses are soft-deleted: logically removed but retained for audit.
type Expense struct {
	ExpenseID   string          `json:"expenseID"` // Primary Key (UUID)
	GroupID     string          `json:"groupID"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"` // total paid, always positive
	PaidBy      string          `json:"paidBy"` // UserID of the payer
	SplitMethod SplitMethod     `json:"splitMethod"`
	Category    string          `json:"category,omitempty"`
	Note        string          `json:"note,omitempty"`
	Date        time.Time       `json:"date"`
	Splits      []Split         `json:"splits,omitempty"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
	AuditFields
}

// Split is one participant's owed share of an expense.
//
// Invariant: for an expense, the split amounts sum to the expense amount
// within 0.01, and the percentages sum to 100 within 0.01.
type Split struct {
	SplitID    string          `json:"splitID"`
	ExpenseID  string          `json:"expenseID"`
	UserID     string          `json:"userID"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}
