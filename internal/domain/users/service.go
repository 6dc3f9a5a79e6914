package users

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/homies-events/server/internal/auth"
)

var (
	// ErrInvalidCredentials is returned when username/password
	// authentication fails. Unknown user and wrong password are
	// deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotFound is returned when a user lookup fails.
	ErrNotFound = errors.New("user not found")
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// Authenticate verifies a username/password pair and returns the matching
// user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
