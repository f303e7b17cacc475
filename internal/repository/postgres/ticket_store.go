package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/repository"
)

// TicketStore is the pgx-backed implementation of repository.TicketStore.
type TicketStore struct {
	pool *pgxpool.Pool
}

// NewTicketStore returns a postgres-backed ticket store.
func NewTicketStore(pool *pgxpool.Pool) *TicketStore {
	return &TicketStore{pool: pool}
}

func (s *TicketStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, priority, status, created_by, assigned_to,
                             created_at, updated_at, resolved_at, sla_deadline)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.CreatedBy,
		ticket.AssignedTo,
		ticket.CreatedAt,
		ticket.UpdatedAt,
		ticket.ResolvedAt,
		ticket.SLADeadline,
	).Scan(&ticket.ID)
	return mapError(err)
}

func (s *TicketStore) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, assigned_to=$2, updated_at=$3, resolved_at=$4
        WHERE id=$5`

	cmd, err := s.pool.Exec(ctx, query,
		ticket.Status,
		ticket.AssignedTo,
		ticket.UpdatedAt,
		ticket.ResolvedAt,
		ticket.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *TicketStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, priority, status, created_by, assigned_to,
               created_at, updated_at, resolved_at, sla_deadline
        FROM tickets WHERE id=$1`

	var ticket domain.Ticket
	if err := s.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.SLADeadline,
	); err != nil {
		return nil, mapError(err)
	}
	return &ticket, nil
}

func (s *TicketStore) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, title, description, priority, status, created_by, assigned_to,
                    created_at, updated_at, resolved_at, sla_deadline
             FROM tickets`
	clauses := []string{}
	args := []any{}

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		clauses = append(clauses, fmt.Sprintf("created_by=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Priority,
			&ticket.Status,
			&ticket.CreatedBy,
			&ticket.AssignedTo,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ResolvedAt,
			&ticket.SLADeadline,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
