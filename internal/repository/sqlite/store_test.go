package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/repository"
)

func openTestDB(t *testing.T) (*UserStore, *TicketStore) {
	t.Helper()
	ctx := context.Background()

	db, err := Open(filepath.Join(t.TempDir(), "incident_tracker_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(ctx, db))
	return NewUserStore(db), NewTicketStore(db)
}

func seedUser(t *testing.T, users *UserStore, username string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		Role:         role,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUserStoreDuplicateUsername(t *testing.T) {
	users, _ := openTestDB(t)
	ctx := context.Background()

	seedUser(t, users, "alice", domain.RoleUser)

	dup := &domain.User{
		Username:     "alice",
		Email:        "other@example.com",
		Role:         domain.RoleUser,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	err := users.Create(ctx, dup)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	// The failed insert must not have left a second record behind.
	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", stored.Email)
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	users, _ := openTestDB(t)

	seedUser(t, users, "alice", domain.RoleUser)

	dup := &domain.User{
		Username:     "alice2",
		Email:        "alice@example.com",
		Role:         domain.RoleUser,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.ErrorIs(t, users.Create(context.Background(), dup), repository.ErrDuplicate)
}

func TestUserStoreGetByUsernameNotFound(t *testing.T) {
	users, _ := openTestDB(t)
	_, err := users.GetByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketStoreRoundTrip(t *testing.T) {
	users, tickets := openTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, users, "alice", domain.RoleUser)

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		Title:       "Printer down",
		Description: "The third-floor printer does not respond",
		Priority:    domain.TicketPriorityHigh,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   owner.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		SLADeadline: now.Add(8 * time.Hour),
	}
	require.NoError(t, tickets.Create(ctx, ticket))
	require.NotEmpty(t, ticket.ID)

	got, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, ticket.Title, got.Title)
	require.Equal(t, domain.TicketStatusOpen, got.Status)
	require.Nil(t, got.ResolvedAt)
	require.True(t, got.CreatedAt.Equal(now))
	require.True(t, got.SLADeadline.Equal(now.Add(8*time.Hour)))
}

func TestTicketStoreGetByIDNotFound(t *testing.T) {
	_, tickets := openTestDB(t)
	_, err := tickets.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketStoreUpdateNotFound(t *testing.T) {
	_, tickets := openTestDB(t)
	err := tickets.Update(context.Background(), &domain.Ticket{
		ID:        "missing",
		Status:    domain.TicketStatusClosed,
		UpdatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketStoreUpdatePersistsResolvedAt(t *testing.T) {
	users, tickets := openTestDB(t)
	ctx := context.Background()

	owner := seedUser(t, users, "alice", domain.RoleUser)
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		Title:       "VPN flaky",
		Description: "Drops every few minutes",
		Priority:    domain.TicketPriorityMedium,
		Status:      domain.TicketStatusOpen,
		CreatedBy:   owner.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		SLADeadline: now.Add(24 * time.Hour),
	}
	require.NoError(t, tickets.Create(ctx, ticket))

	resolvedAt := time.Now().UTC()
	ticket.Status = domain.TicketStatusResolved
	ticket.ResolvedAt = &resolvedAt
	ticket.UpdatedAt = resolvedAt
	require.NoError(t, tickets.Update(ctx, ticket))

	got, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusResolved, got.Status)
	require.NotNil(t, got.ResolvedAt)
	require.True(t, got.ResolvedAt.Equal(resolvedAt))
}

func TestTicketStoreListOrderingAndFilters(t *testing.T) {
	users, tickets := openTestDB(t)
	ctx := context.Background()

	alice := seedUser(t, users, "alice", domain.RoleUser)
	bob := seedUser(t, users, "bob", domain.RoleUser)

	base := time.Now().UTC()
	mk := func(owner string, offset time.Duration, priority domain.TicketPriority, status domain.TicketStatus) *domain.Ticket {
		created := base.Add(offset)
		ticket := &domain.Ticket{
			Title:       "ticket",
			Description: "description",
			Priority:    priority,
			Status:      status,
			CreatedBy:   owner,
			CreatedAt:   created,
			UpdatedAt:   created,
			SLADeadline: created.Add(domain.SLAWindow(priority)),
		}
		require.NoError(t, tickets.Create(ctx, ticket))
		return ticket
	}

	oldest := mk(alice.ID, 0, domain.TicketPriorityLow, domain.TicketStatusOpen)
	middle := mk(bob.ID, time.Second, domain.TicketPriorityHigh, domain.TicketStatusInProgress)
	newest := mk(alice.ID, 2*time.Second, domain.TicketPriorityHigh, domain.TicketStatusOpen)

	all, err := tickets.List(ctx, repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, newest.ID, all[0].ID)
	require.Equal(t, middle.ID, all[1].ID)
	require.Equal(t, oldest.ID, all[2].ID)

	byOwner, err := tickets.List(ctx, repository.TicketFilter{CreatedBy: &alice.ID})
	require.NoError(t, err)
	require.Len(t, byOwner, 2)
	for _, tk := range byOwner {
		require.Equal(t, alice.ID, tk.CreatedBy)
	}

	status := domain.TicketStatusInProgress
	byStatus, err := tickets.List(ctx, repository.TicketFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, middle.ID, byStatus[0].ID)

	priority := domain.TicketPriorityHigh
	combined, err := tickets.List(ctx, repository.TicketFilter{CreatedBy: &alice.ID, Priority: &priority})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	require.Equal(t, newest.ID, combined[0].ID)

	critical := domain.TicketPriorityCritical
	none, err := tickets.List(ctx, repository.TicketFilter{Priority: &critical})
	require.NoError(t, err)
	require.Empty(t, none)
}
