package sqlite

import (
	"context"
	"strings"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, username, first_name, last_name, email, phone, password_hash, user_status, scopes, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO users (username, first_name, last_name, email, phone, password_hash, user_status, scopes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.FirstName, u.LastName, u.Email, u.Phone,
		u.PasswordHash, u.UserStatus, joinScopes(u.Scopes),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, store.ErrAlreadyExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *usersRepo) UpdateUser(ctx context.Context, username string, u domain.User) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET username = COALESCE(NULLIF(?, ''), username),
		    first_name = ?, last_name = ?, email = ?, phone = ?,
		    password_hash = COALESCE(NULLIF(?, ''), password_hash),
		    user_status = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE username = ?`,
		u.Username, u.FirstName, u.LastName, u.Email, u.Phone,
		u.PasswordHash, u.UserStatus, username,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) DeleteUser(ctx context.Context, username string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u      domain.User
		scopes string
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.PasswordHash, &u.UserStatus, &scopes, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Scopes = splitScopes(scopes)
	return u, nil
}
