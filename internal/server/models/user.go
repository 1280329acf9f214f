// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account created on registration. The password is stored only
// as a one-way hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
