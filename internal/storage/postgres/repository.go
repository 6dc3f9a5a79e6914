package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homies-events/server/internal/domain/events"
	"github.com/homies-events/server/internal/domain/users"
)

// Repository groups the PostgreSQL-backed data access by domain.
type Repository struct {
	pool *pgxpool.Pool

	events *EventRepository
	users  *UserRepository
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool cannot be nil")
	}
	return &Repository{
		pool:   pool,
		events: &EventRepository{pool: pool},
		users:  &UserRepository{pool: pool},
	}, nil
}

func (r *Repository) Events() events.Repository {
	return r.events
}

func (r *Repository) Users() users.Repository {
	return r.users
}
