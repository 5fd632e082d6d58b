package services

import (
	"context"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/dto"
)

// ExpenseReaderSvc defines read operations for expenses
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves an expense with its splits.
	// The requesting user must be a member of the expense's group.
	GetExpenseByID(ctx context.Context, expenseID string, requestingUserID string) (*domain.Expense, error)

	// ListExpensesByGroup lists expenses for a group, newest first, paginated
	// by an opaque token.
	ListExpensesByGroup(ctx context.Context, groupID string, requestingUserID string, limit int, nextToken string) ([]domain.Expense, string, error)
}

// ExpenseWriterSvc defines write operations for expenses
type ExpenseWriterSvc interface {
	// CreateExpense validates the split definition, computes per-participant
	// splits and persists the expense atomically with them.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, requestingUserID string) (*domain.Expense, error)

	// UpdateExpense replaces an expense's fields and splits. Only the payer or
	// a group admin may update.
	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error)

	// DeleteExpense soft-deletes an expense. Only the payer or a group admin
	// may delete.
	DeleteExpense(ctx context.Context, expenseID string, requestingUserID string) error
}

// BalanceReaderSvc exposes derived balances for a group.
type BalanceReaderSvc interface {
	// GetGroupBalances returns the net balance of every group member, derived
	// from expenses and confirmed settlements.
	GetGroupBalances(ctx context.Context, groupID string, requestingUserID string) ([]domain.NetBalance, error)
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
	BalanceReaderSvc
}
