package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitmate-app/splitmate_backend/internal/apperrors"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/core/ledger"
	portsrepo "github.com/splitmate-app/splitmate_backend/internal/core/ports/repositories"
	portssvc "github.com/splitmate-app/splitmate_backend/internal/core/ports/services"
	"github.com/splitmate-app/splitmate_backend/internal/dto"
	"github.com/splitmate-app/splitmate_backend/internal/middleware"
)

// expenseService provides expense and balance operations.
type expenseService struct {
	expenseRepo portsrepo.ExpenseRepository
	groupSvc    portssvc.GroupSvcFacade
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepository, groupSvc portssvc.GroupSvcFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		groupSvc:    groupSvc,
	}
}

// Ensure expenseService implements the portssvc.ExpenseSvcFacade interface
var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// validateParticipants checks that the payer and every split participant are
// group members.
func (s *expenseService) validateParticipants(ctx context.Context, groupID, requestingUserID, paidBy string, inputs []dto.SplitInputDTO) error {
	members, err := s.groupSvc.ListGroupMembers(ctx, groupID, requestingUserID)
	if err != nil {
		return err
	}

	memberSet := make(map[string]struct{}, len(members))
	for _, m := range members {
		memberSet[m.UserID] = struct{}{}
	}

	if _, ok := memberSet[paidBy]; !ok {
		return fmt.Errorf("%w: payer %s is not a member of group %s", apperrors.ErrValidation, paidBy, groupID)
	}

	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if _, ok := memberSet[in.UserID]; !ok {
			return fmt.Errorf("%w: participant %s is not a member of group %s", apperrors.ErrValidation, in.UserID, groupID)
		}
		if _, dup := seen[in.UserID]; dup {
			return fmt.Errorf("%w: participant %s appears more than once", apperrors.ErrValidation, in.UserID)
		}
		seen[in.UserID] = struct{}{}
	}

	return nil
}

func toSplitInputs(dtos []dto.SplitInputDTO) []ledger.SplitInput {
	inputs := make([]ledger.SplitInput, len(dtos))
	for i, d := range dtos {
		inputs[i] = ledger.SplitInput{
			UserID:     d.UserID,
			Amount:     d.Amount,
			Percentage: d.Percentage,
		}
	}
	return inputs
}

func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, req.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}
	if err := s.validateParticipants(ctx, req.GroupID, requestingUserID, req.PaidBy, req.Splits); err != nil {
		return nil, err
	}

	splits, err := ledger.ComputeSplits(req.Amount, req.SplitMethod, toSplitInputs(req.Splits))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expenseID := uuid.NewString()
	for i := range splits {
		splits[i].SplitID = uuid.NewString()
		splits[i].ExpenseID = expenseID
	}

	expense := domain.Expense{
		ExpenseID:   expenseID,
		GroupID:     req.GroupID,
		Title:       req.Title,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		SplitMethod: req.SplitMethod,
		Category:    req.Category,
		Note:        req.Note,
		Date:        req.Date,
		Splits:      splits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		logger.Error("Failed to save expense", "error", err)
		return nil, err
	}

	logger.Info("Expense created", "expense_id", expense.ExpenseID, "group_id", expense.GroupID)
	return &expense, nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string, requestingUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, expense.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) ListExpensesByGroup(ctx context.Context, groupID string, requestingUserID string, limit int, nextToken string) ([]domain.Expense, string, error) {
	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, "", err
	}

	var tokenPtr *string
	if nextToken != "" {
		tokenPtr = &nextToken
	}
	expenses, newToken, err := s.expenseRepo.ListExpensesByGroup(ctx, groupID, limit, tokenPtr)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if newToken != nil {
		next = *newToken
	}
	return expenses, next, nil
}

// canModifyExpense allows the payer and group admins to change an expense.
func (s *expenseService) canModifyExpense(ctx context.Context, expense *domain.Expense, requestingUserID string) error {
	if expense.PaidBy == requestingUserID {
		return s.groupSvc.AuthorizeMember(ctx, requestingUserID, expense.GroupID, domain.RoleMember)
	}
	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, expense.GroupID, domain.RoleAdmin); err != nil {
		return fmt.Errorf("%w: only the payer or a group admin can modify this expense", apperrors.ErrForbidden)
	}
	return nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, requestingUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.canModifyExpense(ctx, expense, requestingUserID); err != nil {
		return nil, err
	}
	if err := s.validateParticipants(ctx, expense.GroupID, requestingUserID, req.PaidBy, req.Splits); err != nil {
		return nil, err
	}

	splits, err := ledger.ComputeSplits(req.Amount, req.SplitMethod, toSplitInputs(req.Splits))
	if err != nil {
		return nil, err
	}
	for i := range splits {
		splits[i].SplitID = uuid.NewString()
		splits[i].ExpenseID = expenseID
	}

	expense.Title = req.Title
	expense.Amount = req.Amount
	expense.PaidBy = req.PaidBy
	expense.SplitMethod = req.SplitMethod
	expense.Category = req.Category
	expense.Note = req.Note
	expense.Date = req.Date
	expense.Splits = splits
	expense.LastUpdatedAt = time.Now()
	expense.LastUpdatedBy = requestingUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, err
	}

	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, expenseID string, requestingUserID string) error {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if err := s.canModifyExpense(ctx, expense, requestingUserID); err != nil {
		return err
	}
	return s.expenseRepo.MarkExpenseDeleted(ctx, expenseID, requestingUserID, time.Now())
}

// GetGroupBalances derives every member's net position from a consistent
// snapshot of the group's expenses and confirmed settlements.
func (s *expenseService) GetGroupBalances(ctx context.Context, groupID string, requestingUserID string) ([]domain.NetBalance, error) {
	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}

	snap, err := s.expenseRepo.GetGroupSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances := ledger.GroupBalances(*snap)
	for i := range balances {
		balances[i].Balance = ledger.Round2(balances[i].Balance)
	}
	return balances, nil
}
