package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// ValidPriority reports whether p is a member of the priority enumeration.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// slaHours maps priority to the resolution target in hours.
var slaHours = map[TicketPriority]int{
	TicketPriorityCritical: 4,
	TicketPriorityHigh:     8,
	TicketPriorityMedium:   24,
	TicketPriorityLow:      48,
}

// SLAWindow returns the resolution target for a priority. Unknown
// priorities fall back to the low-priority window.
func SLAWindow(p TicketPriority) time.Duration {
	hours, ok := slaHours[p]
	if !ok {
		hours = slaHours[TicketPriorityLow]
	}
	return time.Duration(hours) * time.Hour
}

// Ticket is the aggregate for incident reports.
//
// SLADeadline is fixed at creation from the priority and is never
// recomputed. ResolvedAt is assigned once, on the first transition
// into resolved, and survives later transitions.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	CreatedBy   string
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
	SLADeadline time.Time
}
