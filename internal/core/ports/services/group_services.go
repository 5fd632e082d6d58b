package services

import (
	"context"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/dto"
)

// GroupReaderSvc defines read operations for groups
type GroupReaderSvc interface {
	// GetGroupByID retrieves a group by its unique identifier.
	// The requesting user must be a member.
	GetGroupByID(ctx context.Context, groupID string, requestingUserID string) (*domain.Group, error)

	// ListGroups lists all groups the requesting user belongs to.
	ListGroups(ctx context.Context, requestingUserID string) ([]domain.Group, error)

	// ListGroupMembers lists the members of a group.
	// The requesting user must be a member.
	ListGroupMembers(ctx context.Context, groupID string, requestingUserID string) ([]domain.GroupMember, error)
}

// GroupWriterSvc defines write operations for groups
type GroupWriterSvc interface {
	// CreateGroup creates a new group with the creator as admin.
	CreateGroup(ctx context.Context, req dto.CreateGroupRequest, creatorUserID string) (*domain.Group, error)

	// UpdateGroup updates group name or default currency. Requires admin role.
	UpdateGroup(ctx context.Context, groupID string, req dto.UpdateGroupRequest, requestingUserID string) (*domain.Group, error)

	// DeleteGroup soft-deletes a group. Requires admin role.
	DeleteGroup(ctx context.Context, groupID string, requestingUserID string) error
}

// GroupMembershipSvc defines operations for managing group members
type GroupMembershipSvc interface {
	// AddMember adds an existing user to a group. Requires admin role.
	// Friendships are upserted between the new member and all existing members.
	AddMember(ctx context.Context, groupID string, req dto.AddMemberRequest, requestingUserID string) (*domain.GroupMember, error)

	// AddGuestMember creates a guest user and adds them to the group in one step.
	// Requires admin role.
	AddGuestMember(ctx context.Context, groupID string, req dto.AddGuestMemberRequest, requestingUserID string) (*domain.GroupMember, error)

	// RemoveMember removes a member from a group. Requires admin role, or the
	// member removing themselves. Members with a non-zero balance cannot be removed.
	RemoveMember(ctx context.Context, groupID string, memberUserID string, requestingUserID string) error
}

// GroupAuthorizerSvc defines authorization checks scoped to a group.
type GroupAuthorizerSvc interface {
	// AuthorizeMember verifies the user is a member of the group with at least
	// the required role. Returns ErrNotFound if the group does not exist,
	// ErrForbidden if the user is not a member or lacks the role.
	AuthorizeMember(ctx context.Context, userID string, groupID string, requiredRole domain.GroupRole) error
}

// GroupSvcFacade combines all group-related service interfaces
type GroupSvcFacade interface {
	GroupReaderSvc
	GroupWriterSvc
	GroupMembershipSvc
	GroupAuthorizerSvc
}
