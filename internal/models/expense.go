package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// SplitMethod identifies how an expense amount is divided among participants.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitPercentage SplitMethod = "percentage"
	SplitCustom     SplitMethod = "custom"
)

// Expense represents an expense row.
type Expense struct {
	ExpenseID   string          `db:"expense_id"`
	GroupID     string          `db:"group_id"`
	Title       string          `db:"title"`
	Amount      decimal.Decimal `db:"amount"`
	PaidBy      string          `db:"paid_by"`
	SplitMethod SplitMethod     `db:"split_method"`
	Category    sql.NullString  `db:"category"`
	Note        sql.NullString  `db:"note"`
	Date        time.Time       `db:"date"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// Split represents a per-participant share row of an expense.
type Split struct {
	SplitID    string          `db:"split_id"`
	ExpenseID  string          `db:"expense_id"`
	UserID     string          `db:"user_id"`
	Amount     decimal.Decimal `db:"amount"`
	Percentage decimal.Decimal `db:"percentage"`
}
