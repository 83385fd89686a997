package domain

import "time"

// User is the domain model for accounts that sign in and own tasks/comments.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         RoleName
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
