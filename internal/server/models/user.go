// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. RefreshHash is nil while the user has no
// refreshable session.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	RefreshHash  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate is a partial update of a user row. Nil UserName or
// PasswordHash leave the column untouched; RefreshHash is always written,
// so nil clears the session.
type UserUpdate struct {
	UserName     *string
	PasswordHash *string
	RefreshHash  *string
}
