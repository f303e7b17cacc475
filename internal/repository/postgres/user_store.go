package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/repository"
)

const uniqueViolation = "23505"

// UserStore is the pgx-backed implementation of repository.UserStore.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore returns a postgres-backed user store.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
	).Scan(&user.ID)
	return mapError(err)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, username, email, password_hash, role, created_at
        FROM users WHERE id=$1`
	return s.fetchOne(ctx, query, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
        SELECT id, username, email, password_hash, role, created_at
        FROM users WHERE username=$1`
	return s.fetchOne(ctx, query, username)
}

func (s *UserStore) fetchOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// mapError translates driver errors into the storage sentinel errors so
// the engine never depends on pgx directly.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
