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

// friendService provides friend-level balance and settlement operations.
type friendService struct {
	friendshipRepo portsrepo.FriendshipRepository
	userRepo       portsrepo.UserRepository
	snapshotRepo   portsrepo.SnapshotReader
	settlementRepo portsrepo.SettlementRepositoryWithTx
}

// NewFriendService creates a new FriendService.
func NewFriendService(friendshipRepo portsrepo.FriendshipRepository, userRepo portsrepo.UserRepository, snapshotRepo portsrepo.SnapshotReader, settlementRepo portsrepo.SettlementRepositoryWithTx) portssvc.FriendSvcFacade {
	return &friendService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		snapshotRepo:   snapshotRepo,
		settlementRepo: settlementRepo,
	}
}

// Ensure friendService implements the portssvc.FriendSvcFacade interface
var _ portssvc.FriendSvcFacade = (*friendService)(nil)

func (s *friendService) ListFriends(ctx context.Context, requestingUserID string) ([]dto.FriendSummary, error) {
	friendships, err := s.friendshipRepo.ListFriendships(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}

	friendIDs := make([]string, 0, len(friendships))
	for _, f := range friendships {
		friendID := f.UserAID
		if friendID == requestingUserID {
			friendID = f.UserBID
		}
		friendIDs = append(friendIDs, friendID)
	}

	users, err := s.userRepo.FindUsersByIDs(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.FriendSummary, 0, len(friendIDs))
	for _, friendID := range friendIDs {
		user, ok := users[friendID]
		if !ok {
			// Deleted users keep their friendship rows but drop out of listings.
			continue
		}

		shared, err := s.snapshotRepo.GetSharedGroupSnapshots(ctx, requestingUserID, friendID)
		if err != nil {
			return nil, err
		}
		_, totals := ledger.FriendBalances(shared, requestingUserID, friendID)

		summaries = append(summaries, dto.FriendSummary{
			User:     dto.ToUserResponse(&user),
			Balances: dto.ToCurrencyBalanceDTOs(totals),
		})
	}

	return summaries, nil
}

func (s *friendService) AddFriend(ctx context.Context, requestingUserID string, friendUserID string) error {
	if requestingUserID == friendUserID {
		return fmt.Errorf("%w: cannot befriend yourself", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.FindUserByID(ctx, friendUserID); err != nil {
		return err
	}

	userA, userB := canonicalPair(requestingUserID, friendUserID)
	now := time.Now()
	return s.friendshipRepo.UpsertFriendship(ctx, domain.Friendship{
		FriendshipID: uuid.NewString(),
		UserAID:      userA,
		UserBID:      userB,
		CreatedAt:    now,
	})
}

func (s *friendService) GetFriendBalances(ctx context.Context, requestingUserID string, friendUserID string) (*dto.FriendBalanceResponse, error) {
	friend, err := s.userRepo.FindUserByID(ctx, friendUserID)
	if err != nil {
		return nil, err
	}

	shared, err := s.snapshotRepo.GetSharedGroupSnapshots(ctx, requestingUserID, friendUserID)
	if err != nil {
		return nil, err
	}

	breakdown, totals := ledger.FriendBalances(shared, requestingUserID, friendUserID)
	return &dto.FriendBalanceResponse{
		Friend:    dto.ToUserResponse(friend),
		Breakdown: dto.ToGroupBalanceDTOs(breakdown),
		Totals:    dto.ToCurrencyBalanceDTOs(totals),
	}, nil
}

// SettleFriend splits one settlement amount proportionally across the shared
// groups carrying a balance between the two users, then persists every
// resulting settlement in a single transaction.
func (s *friendService) SettleFriend(ctx context.Context, requestingUserID string, friendUserID string, req dto.SettleFriendRequest) ([]domain.Allocation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if requestingUserID == friendUserID {
		return nil, fmt.Errorf("%w: cannot settle with yourself", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.FindUserByID(ctx, friendUserID); err != nil {
		return nil, err
	}

	shared, err := s.snapshotRepo.GetSharedGroupSnapshots(ctx, requestingUserID, friendUserID)
	if err != nil {
		return nil, err
	}

	breakdown, _ := ledger.FriendBalances(shared, requestingUserID, friendUserID)
	allocations, err := ledger.AllocateSettlement(breakdown, requestingUserID, friendUserID, req.Amount, req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	// A pending settlement in any affected group blocks the whole operation;
	// partially applying a cross-group settle would skew the remaining groups.
	for _, alloc := range allocations {
		if _, err := s.settlementRepo.FindPendingSettlementBetween(ctx, alloc.GroupID, requestingUserID, friendUserID); err == nil {
			return nil, fmt.Errorf("%w: a pending settlement already exists in group %s", apperrors.ErrDuplicate, alloc.GroupID)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	now := time.Now()
	settlements := make([]domain.Settlement, len(allocations))
	for i, alloc := range allocations {
		settlement := domain.Settlement{
			SettlementID: uuid.NewString(),
			GroupID:      alloc.GroupID,
			FromUserID:   alloc.FromUserID,
			ToUserID:     alloc.ToUserID,
			Amount:       alloc.Amount,
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
		// Where the recorder is the creditor the settlement needs no
		// further confirmation.
		if alloc.ToUserID == requestingUserID {
			settlement.Status = domain.SettlementConfirmed
			settlement.ConfirmedAt = &now
		}
		settlements[i] = settlement
	}

	if err := s.settlementRepo.SaveSettlementsAtomic(ctx, settlements); err != nil {
		logger.Error("Failed to save cross-group settlements", "error", err)
		return nil, err
	}

	logger.Info("Friend settlement recorded", "friend_user_id", friendUserID, "allocations", len(allocations))
	return allocations, nil
}
