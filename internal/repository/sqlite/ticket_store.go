package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/repository"
)

// TicketStore is the sqlite implementation of repository.TicketStore.
type TicketStore struct {
	db *sql.DB
}

// NewTicketStore returns a sqlite-backed ticket store.
func NewTicketStore(db *sql.DB) *TicketStore {
	return &TicketStore{db: db}
}

func (s *TicketStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO tickets (id, title, description, priority, status, created_by, assigned_to,
                             created_at, updated_at, resolved_at, sla_deadline)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.CreatedBy,
		ticket.AssignedTo,
		ticket.CreatedAt.UTC().Format(timeLayout),
		ticket.UpdatedAt.UTC().Format(timeLayout),
		formatNullableTime(ticket.ResolvedAt),
		ticket.SLADeadline.UTC().Format(timeLayout),
	)
	return mapError(err)
}

func (s *TicketStore) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status = ?, assigned_to = ?, updated_at = ?, resolved_at = ?
        WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query,
		ticket.Status,
		ticket.AssignedTo,
		ticket.UpdatedAt.UTC().Format(timeLayout),
		formatNullableTime(ticket.ResolvedAt),
		ticket.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *TicketStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, priority, status, created_by, assigned_to,
               created_at, updated_at, resolved_at, sla_deadline
        FROM tickets WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)
	ticket, err := scanTicket(row.Scan)
	if err != nil {
		return nil, mapError(err)
	}
	return ticket, nil
}

func (s *TicketStore) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, title, description, priority, status, created_by, assigned_to,
                    created_at, updated_at, resolved_at, sla_deadline
             FROM tickets`
	clauses := []string{}
	args := []any{}

	if filter.CreatedBy != nil {
		clauses = append(clauses, "created_by = ?")
		args = append(args, *filter.CreatedBy)
	}
	if filter.Status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		clauses = append(clauses, "priority = ?")
		args = append(args, *filter.Priority)
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(scan func(dest ...any) error) (*domain.Ticket, error) {
	var (
		ticket      domain.Ticket
		assignedTo  sql.NullString
		createdAt   string
		updatedAt   string
		resolvedAt  sql.NullString
		slaDeadline string
	)
	if err := scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedBy,
		&assignedTo,
		&createdAt,
		&updatedAt,
		&resolvedAt,
		&slaDeadline,
	); err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		ticket.AssignedTo = &assignedTo.String
	}

	var err error
	if ticket.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, err
	}
	if ticket.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, err
	}
	if ticket.SLADeadline, err = time.Parse(timeLayout, slaDeadline); err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		parsed, err := time.Parse(timeLayout, resolvedAt.String)
		if err != nil {
			return nil, err
		}
		ticket.ResolvedAt = &parsed
	}
	return &ticket, nil
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
