package domain

import "time"

// TokenPair represents what the token endpoint returns: the short-lived
// access token (JWT) and the opaque refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	Scope        string // space-delimited
}

// RefreshToken models the stored refresh token record in the DB. Only the
// SHA-256 fingerprint of the opaque token is persisted.
type RefreshToken struct {
	ID        string // ULID
	UserID    int64
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	Scopes    []string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
