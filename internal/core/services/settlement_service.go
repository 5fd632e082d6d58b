package services

import (
	"context"
	"errors"
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

// settlementService provides settlement lifecycle operations.
type settlementService struct {
	settlementRepo portsrepo.SettlementRepositoryWithTx
	snapshotRepo   portsrepo.SnapshotReader
	groupSvc       portssvc.GroupSvcFacade
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(settlementRepo portsrepo.SettlementRepositoryWithTx, snapshotRepo portsrepo.SnapshotReader, groupSvc portssvc.GroupSvcFacade) portssvc.SettlementSvcFacade {
	return &settlementService{
		settlementRepo: settlementRepo,
		snapshotRepo:   snapshotRepo,
		groupSvc:       groupSvc,
	}
}

// Ensure settlementService implements the portssvc.SettlementSvcFacade interface
var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

func (s *settlementService) GetSettlementByID(ctx context.Context, settlementID string, requestingUserID string) (*domain.Settlement, error) {
	settlement, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, settlement.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}
	return settlement, nil
}

func (s *settlementService) ListSettlementsByGroup(ctx context.Context, groupID string, requestingUserID string) ([]domain.Settlement, error) {
	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.settlementRepo.ListSettlementsByGroup(ctx, groupID)
}

// GetSimplifiedSettlements computes the minimal transfer plan for the group's
// current balances. The plan is advisory: nothing is persisted.
func (s *settlementService) GetSimplifiedSettlements(ctx context.Context, groupID string, requestingUserID string) ([]domain.SettlementSuggestion, error) {
	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}

	snap, err := s.snapshotRepo.GetGroupSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances := ledger.GroupBalances(*snap)
	participants := make([]ledger.ParticipantBalance, len(balances))
	for i, b := range balances {
		participants[i] = ledger.ParticipantBalance{UserID: b.UserID, Amount: b.Balance}
	}

	return ledger.Simplify(participants), nil
}

// RecordSettlement records a payment between two members. The recorder must
// be one side of the payment; recording your own debt leaves the settlement
// pending until the creditor confirms, while a creditor acknowledging receipt
// confirms immediately.
func (s *settlementService) RecordSettlement(ctx context.Context, req dto.RecordSettlementRequest, requestingUserID string) (*domain.Settlement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, req.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.FromUserID == req.ToUserID {
		return nil, fmt.Errorf("%w: debtor and creditor must differ", apperrors.ErrValidation)
	}
	if requestingUserID != req.FromUserID && requestingUserID != req.ToUserID {
		return nil, fmt.Errorf("%w: settlements can only be recorded by the payer or the recipient", apperrors.ErrForbidden)
	}
	for _, userID := range []string{req.FromUserID, req.ToUserID} {
		if err := s.groupSvc.AuthorizeMember(ctx, userID, req.GroupID, domain.RoleMember); err != nil {
			return nil, fmt.Errorf("%w: both parties must be members of the group", apperrors.ErrValidation)
		}
	}

	// At most one pending settlement per pair per group, in either direction.
	if _, err := s.settlementRepo.FindPendingSettlementBetween(ctx, req.GroupID, req.FromUserID, req.ToUserID); err == nil {
		return nil, fmt.Errorf("%w: a pending settlement already exists between these users in this group", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	snap, err := s.snapshotRepo.GetGroupSnapshot(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	owed := ledger.PairwiseBalance(*snap, req.FromUserID, req.ToUserID)
	if owed.LessThanOrEqual(ledger.Tolerance) {
		return nil, fmt.Errorf("%w: %s owes %s nothing to settle", apperrors.ErrValidation, req.FromUserID, req.ToUserID)
	}
	if req.Amount.GreaterThan(owed.Add(ledger.Tolerance)) {
		return nil, fmt.Errorf("%w: settlement amount %s exceeds outstanding balance %s", apperrors.ErrValidation, req.Amount, owed)
	}

	now := time.Now()
	settlement := domain.Settlement{
		SettlementID: uuid.NewString(),
		GroupID:      req.GroupID,
		FromUserID:   req.FromUserID,
		ToUserID:     req.ToUserID,
		Amount:       ledger.Round2(req.Amount),
		Status:       domain.SettlementPending,
		Note:         req.Note,
		RecordedBy:   requestingUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	// A creditor acknowledging payment needs no further confirmation.
	if requestingUserID == req.ToUserID {
		settlement.Status = domain.SettlementConfirmed
		settlement.ConfirmedAt = &now
	}

	if err := s.settlementRepo.SaveSettlement(ctx, settlement); err != nil {
		logger.Error("Failed to save settlement", "error", err)
		return nil, err
	}

	logger.Info("Settlement recorded", "settlement_id", settlement.SettlementID, "status", settlement.Status)
	return &settlement, nil
}

// ConfirmSettlement transitions a pending settlement to confirmed. Only the
// creditor may confirm, and the amount is revalidated against the live
// pairwise balance so a stale pending record cannot over-settle the debt.
func (s *settlementService) ConfirmSettlement(ctx context.Context, settlementID string, requestingUserID string) (*domain.Settlement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	settlement, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, settlement.GroupID, domain.RoleMember); err != nil {
		return nil, err
	}
	if requestingUserID != settlement.ToUserID {
		return nil, fmt.Errorf("%w: only the creditor can confirm a settlement", apperrors.ErrForbidden)
	}
	if settlement.Status != domain.SettlementPending {
		return nil, fmt.Errorf("%w: settlement %s is already %s", apperrors.ErrConflict, settlementID, settlement.Status)
	}

	// The balance may have moved since the settlement was recorded.
	snap, err := s.snapshotRepo.GetGroupSnapshot(ctx, settlement.GroupID)
	if err != nil {
		return nil, err
	}
	owed := ledger.PairwiseBalance(*snap, settlement.FromUserID, settlement.ToUserID)
	if settlement.Amount.GreaterThan(owed.Add(ledger.Tolerance)) {
		return nil, fmt.Errorf("%w: settlement amount %s exceeds current outstanding balance %s", apperrors.ErrValidation, settlement.Amount, owed)
	}

	now := time.Now()
	if err := s.settlementRepo.ConfirmSettlement(ctx, settlementID, now, requestingUserID); err != nil {
		return nil, err
	}

	settlement.Status = domain.SettlementConfirmed
	settlement.ConfirmedAt = &now
	settlement.LastUpdatedAt = now
	settlement.LastUpdatedBy = requestingUserID

	logger.Info("Settlement confirmed", "settlement_id", settlementID)
	return settlement, nil
}

// DeleteSettlement removes a pending settlement. Confirmed settlements are
// part of the balance history and cannot be deleted.
func (s *settlementService) DeleteSettlement(ctx context.Context, settlementID string, requestingUserID string) error {
	settlement, err := s.settlementRepo.FindSettlementByID(ctx, settlementID)
	if err != nil {
		return err
	}
	if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, settlement.GroupID, domain.RoleMember); err != nil {
		return err
	}

	if settlement.Status != domain.SettlementPending {
		return fmt.Errorf("%w: only pending settlements can be deleted", apperrors.ErrConflict)
	}
	if settlement.RecordedBy != requestingUserID {
		if err := s.groupSvc.AuthorizeMember(ctx, requestingUserID, settlement.GroupID, domain.RoleAdmin); err != nil {
			return fmt.Errorf("%w: only the recorder or a group admin can delete a settlement", apperrors.ErrForbidden)
		}
	}

	return s.settlementRepo.DeleteSettlement(ctx, settlementID)
}
