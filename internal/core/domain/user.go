package domain

import "time"

// User represents a registered account or a guest placeholder.
//
// Guests are created when a group admin invites an email address with no
// account behind it. They participate in expenses and settlements like any
// other member but carry no credential; IsGuest plus the fallback email label
// is the only distinction the rest of the system needs.
type User struct {
	UserID       string     `json:"userID"` // Primary Key (UUID)
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsGuest      bool       `json:"isGuest"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	AuditFields
}
