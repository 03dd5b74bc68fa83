package entity

import "time"

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in HashedPassword.
type User struct {
	ID             string
	Email          string
	HashedPassword string
	FullName       string
	AvatarURL      string
	IsActive       bool
	IsSuperuser    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
