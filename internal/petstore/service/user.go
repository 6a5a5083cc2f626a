package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/fourpaws/petstore/pkg/cryptox"
	"github.com/fourpaws/petstore/pkg/slogx"
)

// DefaultUserScopes is what newly registered accounts may be granted.
var DefaultUserScopes = []string{"read", "write"}

type UserService struct {
	Store store.Store
}

// Register creates a new user account. The plaintext password is hashed
// before it touches the store.
func (s *UserService) Register(ctx context.Context, u domain.User, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if u.Username == "" {
		return domain.User{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return domain.User{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	u.PasswordHash = hash
	if len(u.Scopes) == 0 {
		u.Scopes = DefaultUserScopes
	}

	id, err := s.Store.Users().CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, err
		}
		l.Error("failed to create user", slogx.Username(u.Username), slogx.Err(err))
		return domain.User{}, err
	}

	return s.Store.Users().GetUserByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.Store.Users().GetUserByUsername(ctx, username)
}

// UpdateUser replaces the profile fields for username. When newPassword is
// non-empty the stored hash is replaced too.
func (s *UserService) UpdateUser(ctx context.Context, username string, u domain.User, newPassword string) error {
	if newPassword != "" {
		hash, err := cryptox.HashPassword(newPassword)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	} else {
		u.PasswordHash = ""
	}
	return s.Store.Users().UpdateUser(ctx, username, u)
}

// DeleteUser removes the account. Refresh tokens cascade with the row.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	return s.Store.Users().DeleteUser(ctx, username)
}

// VerifyCredentials checks a username/password pair and returns the account
// on success. Used by the session-style login endpoint.
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}
