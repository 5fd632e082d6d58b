package dto

import (
	"time"

	"github.com/splitmate-app/splitmate_backend/internal/core/domain"
)

// --- Group DTOs ---

// CreateGroupRequest defines data for creating a new group.
type CreateGroupRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	CurrencyCode string `json:"currencyCode" binding:"required,iso4217"`
}

// UpdateGroupRequest defines data allowed for updating a group.
type UpdateGroupRequest struct {
	Name         *string `json:"name"`
	CurrencyCode *string `json:"currencyCode" binding:"omitempty,iso4217"`
}

// GroupResponse defines data returned for a group.
type GroupResponse struct {
	GroupID       string    `json:"groupID"`
	Name          string    `json:"name"`
	CurrencyCode  string    `json:"currencyCode"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToGroupResponse converts domain.Group to DTO.
func ToGroupResponse(g *domain.Group) GroupResponse {
	return GroupResponse{
		GroupID:       g.GroupID,
		Name:          g.Name,
		CurrencyCode:  g.CurrencyCode,
		CreatedAt:     g.CreatedAt,
		CreatedBy:     g.CreatedBy,
		LastUpdatedAt: g.LastUpdatedAt,
	}
}

// ListGroupsResponse wraps a list of groups.
type ListGroupsResponse struct {
	Groups []GroupResponse `json:"groups"`
}

// ToListGroupsResponse converts a slice of domain.Group to DTO.
func ToListGroupsResponse(gs []domain.Group) ListGroupsResponse {
	list := make([]GroupResponse, len(gs))
	for i, g := range gs {
		list[i] = ToGroupResponse(&g)
	}
	return ListGroupsResponse{Groups: list}
}

// --- Membership DTOs ---

// AddMemberRequest defines data for adding an existing user to a group.
type AddMemberRequest struct {
	UserID string           `json:"userID" binding:"required"`
	Role   domain.GroupRole `json:"role" binding:"required,oneof=admin member"`
}

// AddGuestMemberRequest defines data for creating a guest user inside a group.
type AddGuestMemberRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

// GroupMemberResponse defines data returned about a group membership.
type GroupMemberResponse struct {
	GroupID    string           `json:"groupID"`
	UserID     string           `json:"userID"`
	Role       domain.GroupRole `json:"role"`
	IsGuest    bool             `json:"isGuest"`
	GuestEmail string           `json:"guestEmail,omitempty"`
	JoinedAt   time.Time        `json:"joinedAt"`
}

// ToGroupMemberResponse converts domain.GroupMember to DTO.
func ToGroupMemberResponse(m *domain.GroupMember) GroupMemberResponse {
	return GroupMemberResponse{
		GroupID:    m.GroupID,
		UserID:     m.UserID,
		Role:       m.Role,
		IsGuest:    m.IsGuest,
		GuestEmail: m.GuestEmail,
		JoinedAt:   m.JoinedAt,
	}
}

// ListGroupMembersResponse wraps a list of group members.
type ListGroupMembersResponse struct {
	Members []GroupMemberResponse `json:"members"`
}

// ToListGroupMembersResponse converts a slice of domain.GroupMember to DTO.
func ToListGroupMembersResponse(ms []domain.GroupMember) ListGroupMembersResponse {
	list := make([]GroupMemberResponse, len(ms))
	for i, m := range ms {
		list[i] = ToGroupMemberResponse(&m)
	}
	return ListGroupMembersResponse{Members: list}
}
