package domain

import "time"

// GroupRole defines the possible roles a user can have within a group.
type GroupRole string

const (
	RoleAdmin  GroupRole = "admin"
	RoleMember GroupRole = "member"
)

// Group represents a set of members sharing expenses in a single currency.
// Currencies are opaque labels; amounts in different currencies are never
// converted or summed against each other.
type Group struct {
	GroupID      string     `json:"groupID"` // Primary Key (UUID)
	Name         string     `json:"name"`
	CurrencyCode string     `json:"currencyCode"` // e.g. "USD"; label only, never converted
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	AuditFields
}

// GroupMember represents the membership of a User in a Group.
// Members are removed from membership, never deleted, so historical
// expenses and settlements keep resolving.
type GroupMember struct {
	GroupID    string    `json:"groupID"`
	UserID     string    `json:"userID"`
	Role       GroupRole `json:"role"`
	IsGuest    bool      `json:"isGuest"`
	GuestEmail string    `json:"guestEmail,omitempty"` // display label for guests
	JoinedAt   time.Time `json:"joinedAt"`
}
