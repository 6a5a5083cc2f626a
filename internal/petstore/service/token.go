package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/fourpaws/petstore/pkg/cryptox"
	"github.com/fourpaws/petstore/pkg/idx"
	"github.com/fourpaws/petstore/pkg/jwtx"
	"github.com/fourpaws/petstore/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidScope       = errors.New("invalid_scope")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

type TokenService struct {
	Signer     jwtx.Signer
	Store      store.Store
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ExchangePassword implements the OAuth2 resource owner password grant.
//
// It verifies the username/password pair, narrows the requested scopes to
// what the account is allowed, and issues an access/refresh token pair.
func (s *TokenService) ExchangePassword(
	ctx context.Context,
	username, password string,
	requestedScopes []string, // Empty means grant everything the user has
) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn time comparable to a real verify so username probing
			// doesn't stand out on latency.
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slogx.Username(username))
		return nil, ErrInvalidCredentials
	}

	effective := u.Scopes
	if len(requestedScopes) > 0 {
		effective = intersectScopes(requestedScopes, u.Scopes)
	}
	if len(effective) == 0 {
		return nil, ErrInvalidScope
	}

	accessToken, err := s.signAccess(u, effective, now)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	refresh := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		Scopes:    effective,
		ExpiresAt: now.Add(s.RefreshTTL),
		Revoked:   false,
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, refresh); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		ExpiresIn:    s.AccessTTL,
		Scope:        strings.Join(effective, " "),
	}, nil
}

// ExchangeRefreshToken implements the OAuth2 refresh_token grant.
//
// It validates the provided refresh token (by fingerprint lookup plus
// expiry/revocation check), allows scope narrowing, then rotates the
// refresh token and issues a new access token.
func (s *TokenService) ExchangeRefreshToken(
	ctx context.Context,
	refreshOpaque string,
	requestedScopes []string, // Empty means reuse original scopes
) (*domain.TokenPair, error) {
	now := time.Now()

	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if rt.Revoked || now.After(rt.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	// Scopes may narrow on refresh but never widen past the original grant.
	effective := rt.Scopes
	if len(requestedScopes) > 0 {
		effective = intersectScopes(requestedScopes, rt.Scopes)
	}
	effective = intersectScopes(effective, u.Scopes)
	if len(effective) == 0 {
		return nil, ErrInvalidScope
	}

	accessToken, err := s.signAccess(u, effective, now)
	if err != nil {
		return nil, err
	}

	newOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	newRT := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(newOpaque),
		Scopes:    effective,
		ExpiresAt: now.Add(s.RefreshTTL),
		Revoked:   false,
	}

	// Rotation: revoke the old token and create the new one atomically.
	if err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, newRT)
	}); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newOpaque,
		ExpiresIn:    s.AccessTTL,
		Scope:        strings.Join(effective, " "),
	}, nil
}

// RevokeRefreshToken revokes a single refresh token (by its opaque value).
func (s *TokenService) RevokeRefreshToken(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(refreshOpaque)
	return s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
}

// RevokeAllForUser revokes every live refresh token belonging to the user.
// Used on logout so stolen refresh tokens die with the session.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID int64) error {
	return s.Store.RefreshTokens().RevokeAllForUser(ctx, userID)
}

func (s *TokenService) signAccess(u domain.User, scopes []string, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		strconv.FormatInt(u.ID, 10), // subject
		scopes,                      // scopes
		s.AccessTTL,                 // token lifetime
		s.Issuer,                    // issuer
		[]string{s.Audience},        // audience
		u.Username,                  // username
		now,                         // current time
	)
	return s.Signer.Sign(claims)
}

func intersectScopes(a, b []string) []string {
	set := map[string]struct{}{}
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
