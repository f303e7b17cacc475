// Package policy holds the pure access-control decisions for tickets.
// Every function is a function of the caller's role and identity plus
// the target; nothing here touches storage or transport.
package policy

import (
	"github.com/opsdesk/incident-tracker/internal/domain"
	"github.com/opsdesk/incident-tracker/internal/repository"
)

// Caller is the identity the decisions are made for.
type Caller struct {
	ID   string
	Role domain.Role
}

// ScopeFilter narrows a listing filter to what the caller may see. A
// user-role caller is always pinned to their own tickets; any
// caller-supplied created_by value is overridden, not merged. Agents and
// admins pass their filters through untouched.
func ScopeFilter(caller Caller, filter repository.TicketFilter) repository.TicketFilter {
	if caller.Role == domain.RoleUser {
		id := caller.ID
		filter.CreatedBy = &id
	}
	return filter
}

// CanViewTicket reports whether the caller may read a specific ticket.
// List scoping alone does not protect point lookups, so ownership is
// re-checked here for user-role callers.
func CanViewTicket(caller Caller, ticket *domain.Ticket) bool {
	if caller.Role.Staff() {
		return true
	}
	return ticket.CreatedBy == caller.ID
}

// CanUpdateStatus reports whether the caller may transition a ticket.
// Denied outright for user-role callers regardless of ownership;
// permitted for agents and admins regardless of assignment.
func CanUpdateStatus(caller Caller) bool {
	return caller.Role.Staff()
}

// CanRegisterRole reports whether a registration may request the role.
func CanRegisterRole(role domain.Role) bool {
	return domain.ValidRole(role)
}
