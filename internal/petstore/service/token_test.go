package service

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/fourpaws/petstore/internal/petstore/store/drivers/sqlite"
	"github.com/fourpaws/petstore/pkg/cryptox"
	"github.com/fourpaws/petstore/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newServiceStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "service_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestSigner(t *testing.T) jwtx.Signer {
	t.Helper()

	signer, err := jwtx.NewEphemeralSignerEdDSA("test-key")
	require.NoError(t, err)
	return signer
}

func newTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	return &TokenService{
		Signer:     newTestSigner(t),
		Store:      st,
		Issuer:     "petstore-test",
		Audience:   "petstore-api",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func seedUser(t *testing.T, st store.Store, username, password string, scopes []string) domain.User {
	t.Helper()
	ctx := context.Background()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	id, err := st.Users().CreateUser(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
		Scopes:       scopes,
	})
	require.NoError(t, err)

	u, err := st.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	return u
}

func TestExchangePassword(t *testing.T) {
	ctx := context.Background()
	st := newServiceStore(t)
	svc := newTokenService(t, st)
	u := seedUser(t, st, "alice", "hunter2", []string{"read", "write"})

	pair, err := svc.ExchangePassword(ctx, "alice", "hunter2", nil)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "read write", pair.Scope)
	require.Equal(t, time.Minute, pair.ExpiresIn)

	// The issued access token verifies against the signer's public key and
	// carries the account's identity.
	keys := jwtx.NewKeySet()
	keys.AddSigner(svc.Signer)
	verifier := jwtx.NewVerifierEdDSA(keys, svc.Issuer, []string{svc.Audience})

	claims, err := verifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, strconv.FormatInt(u.ID, 10), claims.Subject)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, []string{"read", "write"}, claims.Scopes)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.ExchangePassword(ctx, "alice", "wrong", nil)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ExchangePassword(ctx, "nobody", "hunter2", nil)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("scope narrowing", func(t *testing.T) {
		pair, err := svc.ExchangePassword(ctx, "alice", "hunter2", []string{"read"})
		require.NoError(t, err)
		require.Equal(t, "read", pair.Scope)
	})

	t.Run("scopes outside the account grant nothing", func(t *testing.T) {
		_, err := svc.ExchangePassword(ctx, "alice", "hunter2", []string{"admin"})
		require.ErrorIs(t, err, ErrInvalidScope)
	})
}

func TestExchangeRefreshTokenRotates(t *testing.T) {
	ctx := context.Background()
	st := newServiceStore(t)
	svc := newTokenService(t, st)
	seedUser(t, st, "bob", "sekret", []string{"read", "write"})

	pair, err := svc.ExchangePassword(ctx, "bob", "sekret", nil)
	require.NoError(t, err)

	next, err := svc.ExchangeRefreshToken(ctx, pair.RefreshToken, nil)
	require.NoError(t, err)
	require.NotEmpty(t, next.AccessToken)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	require.Equal(t, "read write", next.Scope)

	// The previous refresh token was revoked by the rotation.
	_, err = svc.ExchangeRefreshToken(ctx, pair.RefreshToken, nil)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// The rotated token still works.
	_, err = svc.ExchangeRefreshToken(ctx, next.RefreshToken, nil)
	require.NoError(t, err)
}

func TestExchangeRefreshTokenRejections(t *testing.T) {
	ctx := context.Background()
	st := newServiceStore(t)
	svc := newTokenService(t, st)
	seedUser(t, st, "carol", "pw", []string{"read"})

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.ExchangeRefreshToken(ctx, "no-such-token", nil)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("expired token", func(t *testing.T) {
		short := newTokenService(t, st)
		short.RefreshTTL = -time.Minute

		pair, err := short.ExchangePassword(ctx, "carol", "pw", nil)
		require.NoError(t, err)

		_, err = svc.ExchangeRefreshToken(ctx, pair.RefreshToken, nil)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("revoked token", func(t *testing.T) {
		pair, err := svc.ExchangePassword(ctx, "carol", "pw", nil)
		require.NoError(t, err)

		require.NoError(t, svc.RevokeRefreshToken(ctx, pair.RefreshToken))

		_, err = svc.ExchangeRefreshToken(ctx, pair.RefreshToken, nil)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("refresh cannot widen scopes", func(t *testing.T) {
		pair, err := svc.ExchangePassword(ctx, "carol", "pw", []string{"read"})
		require.NoError(t, err)

		_, err = svc.ExchangeRefreshToken(ctx, pair.RefreshToken, []string{"write"})
		require.ErrorIs(t, err, ErrInvalidScope)
	})
}

func TestRevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	st := newServiceStore(t)
	svc := newTokenService(t, st)
	u := seedUser(t, st, "dave", "pw", []string{"read"})

	first, err := svc.ExchangePassword(ctx, "dave", "pw", nil)
	require.NoError(t, err)
	second, err := svc.ExchangePassword(ctx, "dave", "pw", nil)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllForUser(ctx, u.ID))

	_, err = svc.ExchangeRefreshToken(ctx, first.RefreshToken, nil)
	require.ErrorIs(t, err, ErrInvalidRefresh)
	_, err = svc.ExchangeRefreshToken(ctx, second.RefreshToken, nil)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestIntersectScopes(t *testing.T) {
	t.Parallel()

	t.Run("returns intersection without duplicates", func(t *testing.T) {
		result := intersectScopes([]string{"read", "read", "write", "admin"}, []string{"read", "write"})
		require.Equal(t, []string{"read", "write"}, result)
	})

	t.Run("returns empty slice when no overlap", func(t *testing.T) {
		require.Empty(t, intersectScopes([]string{"admin"}, []string{"read"}))
	})
}
