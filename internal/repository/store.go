// Package repository defines the storage contract the core engine is
// written against. Concrete backends (postgres, sqlite) live in
// subpackages and are selected by configuration at startup.
package repository

import (
	"context"
	"errors"

	"github.com/opsdesk/incident-tracker/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a uniqueness constraint is violated.
var ErrDuplicate = errors.New("duplicate record")

// TicketFilter is the closed set of listing criteria. Keeping the fields
// explicit prevents unvalidated column injection into queries.
type TicketFilter struct {
	CreatedBy *string
	Status    *domain.TicketStatus
	Priority  *domain.TicketPriority
}

// UserStore persists account records. Username and email uniqueness is
// enforced by the store; violations surface as ErrDuplicate.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TicketStore persists ticket records. Listing is always ordered by
// created_at descending. Every mutation is a single atomic statement.
type TicketStore interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}
