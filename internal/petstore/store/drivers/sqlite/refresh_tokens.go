package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
)

type refreshTokensRepo struct {
	q querier
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, scopes, expires_at, revoked)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, joinScopes(t.Scopes), t.ExpiresAt.UTC(), t.Revoked,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, scopes, expires_at, revoked, created_at, updated_at
		FROM refresh_tokens WHERE token_hash = ?`, hash)

	var (
		t      domain.RefreshToken
		scopes string
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.TokenHash, &scopes,
		&t.ExpiresAt, &t.Revoked, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.Scopes = splitScopes(scopes)
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked = 1, updated_at = CURRENT_TIMESTAMP
		WHERE token_hash = ? AND revoked = 0`, hash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *refreshTokensRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked = 1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND revoked = 0`, userID)
	return err
}

func (r *refreshTokensRepo) DeleteExpired(ctx context.Context) (int64, error) {
	// Bound parameter rather than CURRENT_TIMESTAMP so both sides use the
	// driver's time encoding.
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM refresh_tokens
		WHERE expires_at < ? OR revoked = 1`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
