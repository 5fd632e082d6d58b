package dto

import (
	"github.com/shopspring/decimal"
	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// CurrencyBalanceDTO holds a friend-level total for one currency. Positive
// means the friend owes the requesting user.
type CurrencyBalanceDTO struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// AddFriendRequest defines data for creating a friendship.
type AddFriendRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// FriendSummary describes one friend with their net cross-group position.
type FriendSummary struct {
	User     UserResponse         `json:"user"`
	Balances []CurrencyBalanceDTO `json:"balances"`
}

// ListFriendsResponse wraps the requesting user's friends.
type ListFriendsResponse struct {
	Friends []FriendSummary `json:"friends"`
}

// GroupBalanceDTO holds the pairwise balance carried by one shared group.
type GroupBalanceDTO struct {
	GroupID      string          `json:"groupID"`
	GroupName    string          `json:"groupName"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// FriendBalanceResponse is the per-group breakdown and per-currency totals
// between the requesting user and a friend.
type FriendBalanceResponse struct {
	Friend    UserResponse         `json:"friend"`
	Breakdown []GroupBalanceDTO    `json:"breakdown"`
	Totals    []CurrencyBalanceDTO `json:"totals"`
}

// SettleFriendRequest defines data for settling across shared groups.
type SettleFriendRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required,dgt0"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,iso4217"`
	Note         string          `json:"note"`
}

// AllocationResponse defines one per-group settlement produced by a
// friend-level settle.
type AllocationResponse struct {
	GroupID    string          `json:"groupID"`
	GroupName  string          `json:"groupName"`
	FromUserID string          `json:"fromUserID"`
	ToUserID   string          `json:"toUserID"`
	Amount     decimal.Decimal `json:"amount"`
}

// SettleFriendResponse wraps the allocations created by a friend-level settle.
type SettleFriendResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
}

// ToSettleFriendResponse converts allocations to DTO.
func ToSettleFriendResponse(as []domain.Allocation) SettleFriendResponse {
	list := make([]AllocationResponse, len(as))
	for i, a := range as {
		list[i] = AllocationResponse{
			GroupID:    a.GroupID,
			GroupName:  a.GroupName,
			FromUserID: a.FromUserID,
			ToUserID:   a.ToUserID,
			Amount:     a.Amount,
		}
	}
	return SettleFriendResponse{Allocations: list}
}

// ToGroupBalanceDTOs converts domain group balances to DTO.
func ToGroupBalanceDTOs(bs []domain.GroupBalance) []GroupBalanceDTO {
	list := make([]GroupBalanceDTO, len(bs))
	for i, b := range bs {
		list[i] = GroupBalanceDTO{
			GroupID:      b.GroupID,
			GroupName:    b.GroupName,
			CurrencyCode: b.CurrencyCode,
			Balance:      b.Balance,
		}
	}
	return list
}

// ToCurrencyBalanceDTOs converts domain currency totals to DTO.
func ToCurrencyBalanceDTOs(bs []domain.CurrencyBalance) []CurrencyBalanceDTO {
	list := make([]CurrencyBalanceDTO, len(bs))
	for i, b := range bs {
		list[i] = CurrencyBalanceDTO{
			CurrencyCode: b.CurrencyCode,
			Balance:      b.Balance,
		}
	}
	return list
}
