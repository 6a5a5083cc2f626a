package store

import (
	"context"
	"errors"

	"github.com/fourpaws/petstore/internal/petstore/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Pets() Pets
	Orders() Orders
	Users() Users
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh rotation).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Pets interface {
	// CreatePet inserts a new pet and returns its assigned id.
	CreatePet(ctx context.Context, p domain.Pet) (int64, error)

	// GetPetByID returns a pet with its photos and tags loaded.
	GetPetByID(ctx context.Context, id int64) (domain.Pet, error)

	// UpdatePet replaces an existing pet record including photos and tags.
	UpdatePet(ctx context.Context, p domain.Pet) error

	// UpdatePetNameStatus mutates name and/or status; empty values are left unchanged.
	UpdatePetNameStatus(ctx context.Context, id int64, name, status string) error

	// DeletePet cascades to photos and tags (per schema).
	DeletePet(ctx context.Context, id int64) error

	// FindPetsByStatus returns pets in any of the given statuses.
	FindPetsByStatus(ctx context.Context, statuses []string) ([]domain.Pet, error)

	// FindPetsByTags returns pets carrying any of the given tag names.
	FindPetsByTags(ctx context.Context, tags []string) ([]domain.Pet, error)

	// CountByStatus returns pet counts keyed by status.
	CountByStatus(ctx context.Context) (map[string]int32, error)
}

type Orders interface {
	// CreateOrder inserts a new order and returns its assigned id.
	CreateOrder(ctx context.Context, o domain.Order) (int64, error)

	GetOrderByID(ctx context.Context, id int64) (domain.Order, error)

	DeleteOrder(ctx context.Context, id int64) error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is used during the password grant and profile lookups.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user and returns its assigned id.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// UpdateUser replaces the profile fields of the user with the given
	// username. An empty PasswordHash leaves the stored hash unchanged.
	UpdateUser(ctx context.Context, username string, u domain.User) error

	// DeleteUser cascades to refresh_tokens (per schema).
	DeleteUser(ctx context.Context, username string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by its fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken marks the token with the given fingerprint as revoked.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllForUser revokes every live token belonging to the user.
	RevokeAllForUser(ctx context.Context, userID int64) error

	// DeleteExpired removes expired and revoked rows, returning the number deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}
