package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homies-events/server/internal/domain/users"
)

var _ users.Repository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.get(ctx, `
SELECT id, username, email, password_hash
  FROM users
 WHERE username = $1`, username)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.get(ctx, `
SELECT id, username, email, password_hash
  FROM users
 WHERE id = $1`, id)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*users.User, error) {
	var user users.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
