package domain

import "time"

type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string // argon2 encoded
	UserStatus   int32
	Scopes       []string // scopes this account may be granted, e.g. "read write"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
