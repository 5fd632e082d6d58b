package repositories

import (
	"context"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// FriendshipRepository defines operations for friendship pairs.
// Pairs are stored canonically ordered (UserAID < UserBID).
type FriendshipRepository interface {
	// UpsertFriendship records a friendship, idempotently.
	UpsertFriendship(ctx context.Context, friendship domain.Friendship) error

	// ListFriendships retrieves all friendships involving a user, newest first.
	ListFriendships(ctx context.Context, userID string) ([]domain.Friendship, error)
}
