package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/opsdesk/incident-tracker/internal/domain"
)

// Timestamps are stored as fixed-width UTC text: zero-padded
// nanoseconds keep lexical ordering identical to chronological
// ordering, so ORDER BY on the column stays correct.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// UserStore is the sqlite implementation of repository.UserStore.
type UserStore struct {
	db *sql.DB
}

// NewUserStore returns a sqlite-backed user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO users (id, username, email, password_hash, role, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt.UTC().Format(timeLayout),
	)
	return mapError(err)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, username, email, password_hash, role, created_at
        FROM users WHERE id = ?`
	return s.fetchOne(ctx, query, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
        SELECT id, username, email, password_hash, role, created_at
        FROM users WHERE username = ?`
	return s.fetchOne(ctx, query, username)
}

func (s *UserStore) fetchOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user      domain.User
		createdAt string
	)
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&createdAt,
	); err != nil {
		return nil, mapError(err)
	}

	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = parsed
	return &user, nil
}
