package services

import (
	"context"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
	"github.com/splitmate-app/splitmate_backend/internal/dto"
)

// FriendReaderSvc defines read operations for friendships and cross-group balances
type FriendReaderSvc interface {
	// ListFriends lists the requesting user's friends with their net
	// cross-group balance per currency.
	ListFriends(ctx context.Context, requestingUserID string) ([]dto.FriendSummary, error)

	// GetFriendBalances returns the per-group breakdown and per-currency
	// totals between the requesting user and a friend.
	GetFriendBalances(ctx context.Context, requestingUserID string, friendUserID string) (*dto.FriendBalanceResponse, error)
}

// FriendWriterSvc defines write operations for friendships and friend-level
// settlement.
type FriendWriterSvc interface {
	// AddFriend creates a friendship between the requesting user and another
	// user. Adding an existing friend is a no-op.
	AddFriend(ctx context.Context, requestingUserID string, friendUserID string) error

	// SettleFriend allocates a settlement amount proportionally across the
	// shared groups carrying a balance between the two users, persisting all
	// resulting settlements atomically.
	SettleFriend(ctx context.Context, requestingUserID string, friendUserID string, req dto.SettleFriendRequest) ([]domain.Allocation, error)
}

// FriendSvcFacade combines all friend-related service interfaces
type FriendSvcFacade interface {
	FriendReaderSvc
	FriendWriterSvc
}
