package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/repository"
)

func TestScopeFilterPinsUserToOwnTickets(t *testing.T) {
	caller := Caller{ID: "user-1", Role: domain.RoleUser}

	scoped := ScopeFilter(caller, repository.TicketFilter{})
	if assert.NotNil(t, scoped.CreatedBy) {
		assert.Equal(t, "user-1", *scoped.CreatedBy)
	}

	// A caller-supplied created_by must be overridden, not honored.
	other := "user-2"
	scoped = ScopeFilter(caller, repository.TicketFilter{CreatedBy: &other})
	if assert.NotNil(t, scoped.CreatedBy) {
		assert.Equal(t, "user-1", *scoped.CreatedBy)
	}
}

func TestScopeFilterPassesStaffFiltersThrough(t *testing.T) {
	requester := "user-7"
	status := domain.TicketStatusOpen

	for _, role := range []domain.Role{domain.RoleAgent, domain.RoleAdmin} {
		scoped := ScopeFilter(Caller{ID: "staff-1", Role: role}, repository.TicketFilter{
			CreatedBy: &requester,
			Status:    &status,
		})
		assert.Equal(t, &requester, scoped.CreatedBy, "role %s", role)
		assert.Equal(t, &status, scoped.Status, "role %s", role)
	}

	scoped := ScopeFilter(Caller{ID: "staff-1", Role: domain.RoleAgent}, repository.TicketFilter{})
	assert.Nil(t, scoped.CreatedBy)
}

func TestCanViewTicket(t *testing.T) {
	ticket := &domain.Ticket{ID: "t-1", CreatedBy: "user-1"}

	assert.True(t, CanViewTicket(Caller{ID: "user-1", Role: domain.RoleUser}, ticket))
	assert.False(t, CanViewTicket(Caller{ID: "user-2", Role: domain.RoleUser}, ticket))
	assert.True(t, CanViewTicket(Caller{ID: "staff-1", Role: domain.RoleAgent}, ticket))
	assert.True(t, CanViewTicket(Caller{ID: "staff-2", Role: domain.RoleAdmin}, ticket))
}

func TestCanUpdateStatus(t *testing.T) {
	assert.False(t, CanUpdateStatus(Caller{ID: "user-1", Role: domain.RoleUser}))
	assert.True(t, CanUpdateStatus(Caller{ID: "staff-1", Role: domain.RoleAgent}))
	assert.True(t, CanUpdateStatus(Caller{ID: "staff-2", Role: domain.RoleAdmin}))
}

func TestCanRegisterRole(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleAgent, domain.RoleUser} {
		assert.True(t, CanRegisterRole(role))
	}
	assert.False(t, CanRegisterRole(domain.Role("superuser")))
	assert.False(t, CanRegisterRole(domain.Role("")))
}
