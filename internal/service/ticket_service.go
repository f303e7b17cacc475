package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/events"
	"github.com/opsdesk/incident-tracker/internal/policy"
	"github.com/opsdesk/incident-tracker/internal/repository"
	apperrors "github.com/opsdesk/incident-tracker/pkg/util"
)

// TicketService is the ticket lifecycle engine: it creates tickets with
// computed SLA deadlines, applies status transitions and enforces the
// access policy on every read and write.
type TicketService struct {
	tickets    repository.TicketStore
	dispatcher events.Dispatcher
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TicketStore repository.TicketStore
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketStore,
		dispatcher: deps.Dispatcher,
	}
}

// Create files a new ticket owned by the caller. The SLA deadline is
// computed once, from the priority, and never revisited.
func (s *TicketService) Create(ctx context.Context, caller policy.Caller, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		SLADeadline: now.Add(domain.SLAWindow(priority)),
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketCreatedPayload{
			Title:       ticket.Title,
			Priority:    ticket.Priority,
			SLADeadline: ticket.SLADeadline,
		},
	})
	return ticket, nil
}

// List returns tickets visible to the caller, most recent first. The
// filter is scoped before it reaches the store: user-role callers only
// ever see their own tickets, whatever they asked for.
func (s *TicketService) List(ctx context.Context, caller policy.Caller, filter repository.TicketFilter) ([]domain.Ticket, error) {
	scoped := policy.ScopeFilter(caller, filter)
	tickets, err := s.tickets.List(ctx, scoped)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// Get fetches a single ticket, re-checking ownership for user-role
// callers since list scoping alone does not protect point lookups.
func (s *TicketService) Get(ctx context.Context, caller policy.Caller, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	if !policy.CanViewTicket(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// UpdateStatus transitions a ticket. Any status may move to any other
// status; the gate is the caller's role, not a transition graph.
// Entering resolved stamps resolved_at exactly once; later transitions
// leave it in place.
func (s *TicketService) UpdateStatus(ctx context.Context, caller policy.Caller, id string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !policy.CanUpdateStatus(caller) {
		return nil, apperrors.NewForbidden("insufficient role for status updates")
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}

	now := time.Now().UTC()
	oldStatus := ticket.Status
	ticket.Status = newStatus
	ticket.UpdatedAt = now
	if newStatus == domain.TicketStatusResolved && ticket.ResolvedAt == nil {
		ticket.ResolvedAt = &now
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Resolved:  ticket.ResolvedAt != nil,
		},
	})
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
