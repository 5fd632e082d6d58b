package repositories

import (
	"context"
	"time"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/core/ledger"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves a non-deleted expense with its splits.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByGroup retrieves a paginated list of non-deleted expenses
	// (with splits) for a group, newest first, using token-based pagination.
	// It returns the expenses, a token for the next page, and an error.
	ListExpensesByGroup(ctx context.Context, groupID string, limit int, nextToken *string) ([]domain.Expense, *string, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpense persists an expense and its splits within one transaction.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// UpdateExpense replaces an expense's fields and splits within one
	// transaction.
	UpdateExpense(ctx context.Context, expense domain.Expense) error

	// MarkExpenseDeleted soft-deletes an expense; splits stay for audit.
	MarkExpenseDeleted(ctx context.Context, expenseID string, deletedBy string, deletedAt time.Time) error
}

// SnapshotReader supplies the consistent reads that feed balance
// computation. Each call runs inside a single repeatable-read transaction so
// balances are never computed from a mix of pre- and post-mutation state.
type SnapshotReader interface {
	// GetGroupSnapshot reads a group's members, non-deleted expenses and
	// confirmed settlements in one consistent view.
	GetGroupSnapshot(ctx context.Context, groupID string) (*ledger.GroupSnapshot, error)

	// GetSharedGroupSnapshots reads consistent snapshots of every non-deleted
	// group both users belong to.
	GetSharedGroupSnapshots(ctx context.Context, userAID, userBID string) ([]ledger.GroupSnapshot, error)
}

// ExpenseRepository combines expense reads, writes and snapshot reads.
type ExpenseRepository interface {
	ExpenseReader
	ExpenseWriter
	SnapshotReader
}
