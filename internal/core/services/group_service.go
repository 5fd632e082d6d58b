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

// groupService provides group and membership operations.
type groupService struct {
	groupRepo      portsrepo.GroupRepository
	userRepo       portsrepo.UserRepository
	friendshipRepo portsrepo.FriendshipRepository
	snapshotRepo   portsrepo.SnapshotReader
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo portsrepo.GroupRepository, userRepo portsrepo.UserRepository, friendshipRepo portsrepo.FriendshipRepository, snapshotRepo portsrepo.SnapshotReader) portssvc.GroupSvcFacade {
	return &groupService{
		groupRepo:      groupRepo,
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		snapshotRepo:   snapshotRepo,
	}
}

// Ensure groupService implements the portssvc.GroupSvcFacade interface
var _ portssvc.GroupSvcFacade = (*groupService)(nil)

// AuthorizeMember verifies the user belongs to the group with at least the
// required role. Non-members get ErrForbidden, missing groups ErrNotFound.
func (s *groupService) AuthorizeMember(ctx context.Context, userID string, groupID string, requiredRole domain.GroupRole) error {
	if _, err := s.groupRepo.FindGroupByID(ctx, groupID); err != nil {
		return err
	}

	member, err := s.groupRepo.FindGroupMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s is not a member of group %s", apperrors.ErrForbidden, userID, groupID)
		}
		return err
	}

	if requiredRole == domain.RoleAdmin && member.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: user %s requires admin role in group %s", apperrors.ErrForbidden, userID, groupID)
	}

	return nil
}

func (s *groupService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest, creatorUserID string) (*domain.Group, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	group := domain.Group{
		GroupID:      uuid.NewString(),
		Name:         req.Name,
		CurrencyCode: req.CurrencyCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	creatorMembership := domain.GroupMember{
		GroupID:  group.GroupID,
		UserID:   creatorUserID,
		Role:     domain.RoleAdmin,
		JoinedAt: now,
	}

	if err := s.groupRepo.SaveGroup(ctx, group, creatorMembership); err != nil {
		logger.Error("Failed to save group", "error", err)
		return nil, err
	}

	logger.Info("Group created", "group_id", group.GroupID)
	return &group, nil
}

func (s *groupService) GetGroupByID(ctx context.Context, groupID string, requestingUserID string) (*domain.Group, error) {
	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.groupRepo.FindGroupByID(ctx, groupID)
}

func (s *groupService) ListGroups(ctx context.Context, requestingUserID string) ([]domain.Group, error) {
	return s.groupRepo.ListGroupsByUserID(ctx, requestingUserID)
}

func (s *groupService) ListGroupMembers(ctx context.Context, groupID string, requestingUserID string) ([]domain.GroupMember, error) {
	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleMember); err != nil {
		return nil, err
	}
	return s.groupRepo.ListGroupMembers(ctx, groupID)
}

func (s *groupService) UpdateGroup(ctx context.Context, groupID string, req dto.UpdateGroupRequest, requestingUserID string) (*domain.Group, error) {
	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.CurrencyCode != nil {
		group.CurrencyCode = *req.CurrencyCode
	}
	group.LastUpdatedAt = time.Now()
	group.LastUpdatedBy = requestingUserID

	if err := s.groupRepo.UpdateGroup(ctx, *group); err != nil {
		return nil, err
	}

	return group, nil
}

func (s *groupService) DeleteGroup(ctx context.Context, groupID string, requestingUserID string) error {
	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleAdmin); err != nil {
		return err
	}
	return s.groupRepo.MarkGroupDeleted(ctx, groupID, requestingUserID)
}

func (s *groupService) AddMember(ctx context.Context, groupID string, req dto.AddMemberRequest, requestingUserID string) (*domain.GroupMember, error) {
	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s does not exist", apperrors.ErrValidation, req.UserID)
		}
		return nil, err
	}

	member := domain.GroupMember{
		GroupID:  groupID,
		UserID:   user.UserID,
		Role:     req.Role,
		IsGuest:  user.IsGuest,
		JoinedAt: time.Now(),
	}

	if err := s.addMemberWithFriendships(ctx, member); err != nil {
		return nil, err
	}
	return &member, nil
}

// AddGuestMember creates a guest user record and joins it to the group. The
// guest has no credentials; the optional email is kept for a later claim.
func (s *groupService) AddGuestMember(ctx context.Context, groupID string, req dto.AddGuestMemberRequest, requestingUserID string) (*domain.GroupMember, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	now := time.Now()
	guest := domain.User{
		UserID:  uuid.NewString(),
		Name:    req.Name,
		Email:   req.Email,
		IsGuest: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, guest); err != nil {
		logger.Error("Failed to save guest user", "error", err)
		return nil, err
	}

	member := domain.GroupMember{
		GroupID:    groupID,
		UserID:     guest.UserID,
		Role:       domain.RoleMember,
		IsGuest:    true,
		GuestEmail: req.Email,
		JoinedAt:   now,
	}

	if err := s.addMemberWithFriendships(ctx, member); err != nil {
		return nil, err
	}

	logger.Info("Guest member added", "group_id", groupID, "guest_user_id", guest.UserID)
	return &member, nil
}

// addMemberWithFriendships inserts the membership and upserts a friendship
// between the new member and every existing member of the group.
func (s *groupService) addMemberWithFriendships(ctx context.Context, member domain.GroupMember) error {
	existing, err := s.groupRepo.ListGroupMembers(ctx, member.GroupID)
	if err != nil {
		return err
	}

	if err := s.groupRepo.AddGroupMember(ctx, member); err != nil {
		return err
	}

	now := time.Now()
	for _, other := range existing {
		if other.UserID == member.UserID {
			continue
		}
		userA, userB := canonicalPair(member.UserID, other.UserID)
		friendship := domain.Friendship{
			FriendshipID: uuid.NewString(),
			UserAID:      userA,
			UserBID:      userB,
			CreatedAt:    now,
		}
		if err := s.friendshipRepo.UpsertFriendship(ctx, friendship); err != nil {
			return err
		}
	}
	return nil
}

// canonicalPair orders two user IDs so each pair maps to one friendship row.
func canonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func (s *groupService) RemoveMember(ctx context.Context, groupID string, memberUserID string, requestingUserID string) error {
	// Members may remove themselves; removing anyone else requires admin.
	requiredRole := domain.RoleAdmin
	if memberUserID == requestingUserID {
		requiredRole = domain.RoleMember
	}
	if err := s.AuthorizeMember(ctx, requestingUserID, groupID, requiredRole); err != nil {
		return err
	}

	if _, err := s.groupRepo.FindGroupMember(ctx, groupID, memberUserID); err != nil {
		return err
	}

	snap, err := s.snapshotRepo.GetGroupSnapshot(ctx, groupID)
	if err != nil {
		return err
	}
	for _, b := range ledger.GroupBalances(*snap) {
		if b.UserID == memberUserID && !ledger.IsZeroish(b.Balance) {
			return fmt.Errorf("%w: member %s has an outstanding balance of %s", apperrors.ErrConflict, memberUserID, b.Balance)
		}
	}

	return s.groupRepo.RemoveGroupMember(ctx, groupID, memberUserID)
}
