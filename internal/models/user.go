package models

import (
	"database/sql"
	"time"
)

// User represents a user row. Guests share the table with credentialed users;
// a guest has no password hash and carries an optional contact email.
type User struct {
	UserID       string         `db:"user_id"`
	Name         string         `db:"name"`
	Email        sql.NullString `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"`
	IsGuest      bool           `db:"is_guest"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
