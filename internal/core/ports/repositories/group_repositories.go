package repositories

import (
	"context"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// GroupReader defines read operations for group and membership data
type GroupReader interface {
	// FindGroupByID retrieves a non-deleted group by its unique identifier.
	FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error)

	// ListGroupsByUserID retrieves the non-deleted groups a user belongs to.
	ListGroupsByUserID(ctx context.Context, userID string) ([]domain.Group, error)

	// FindGroupMember retrieves a user's membership in a group.
	// Returns apperrors.ErrNotFound when the user is not a member.
	FindGroupMember(ctx context.Context, groupID, userID string) (*domain.GroupMember, error)

	// ListGroupMembers retrieves all members of a group.
	ListGroupMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error)

	// ListSharedGroupIDs retrieves the IDs of non-deleted groups where both
	// users are members.
	ListSharedGroupIDs(ctx context.Context, userAID, userBID string) ([]string, error)
}

// GroupWriter defines write operations for group and membership data
type GroupWriter interface {
	// SaveGroup persists a group and its initial admin membership atomically.
	SaveGroup(ctx context.Context, group domain.Group, creatorMembership domain.GroupMember) error

	// UpdateGroup updates mutable group fields (name).
	UpdateGroup(ctx context.Context, group domain.Group) error

	// AddGroupMember adds a user to a group.
	// Returns apperrors.ErrDuplicate when the user is already a member.
	AddGroupMember(ctx context.Context, member domain.GroupMember) error

	// RemoveGroupMember removes a user's membership from a group.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// MarkGroupDeleted soft-deletes a group.
	MarkGroupDeleted(ctx context.Context, groupID string, deletedBy string) error
}

// GroupRepository combines read and write operations for groups.
type GroupRepository interface {
	GroupReader
	GroupWriter
}
