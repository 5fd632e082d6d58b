package models

import (
	"database/sql"
	"time"
)

// GroupRole mirrors the role a user holds within a group.
type GroupRole string

const (
	RoleAdmin  GroupRole = "admin"
	RoleMember GroupRole = "member"
)

// Group represents a group row.
type Group struct {
	GroupID      string `db:"group_id"`
	Name         string `db:"name"`
	CurrencyCode string `db:"currency_code"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// GroupMember represents a membership row linking a user to a group.
type GroupMember struct {
	GroupID    string         `db:"group_id"`
	UserID     string         `db:"user_id"`
	Role       GroupRole      `db:"role"`
	IsGuest    bool           `db:"is_guest"`
	GuestEmail sql.NullString `db:"guest_email"`
	JoinedAt   time.Time      `db:"joined_at"`
}
