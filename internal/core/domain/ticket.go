package domain

import (
	"strconv"
	"strings"
	"time"
)

// TicketKind classifies a ticket as an incident or a service request.
type TicketKind string

const (
	KindIncident       TicketKind = "Incident"
	KindServiceRequest TicketKind = "Service Request"
	KindUnknown        TicketKind = ""
)

// ParseTicketKind normalizes the raw type string reported by the ticketing
// platform. Anything that is not an incident or a service request maps to
// KindUnknown and is excluded from aggregation.
func ParseTicketKind(raw string) TicketKind {
	switch {
	case strings.EqualFold(raw, "Incident"):
		return KindIncident
	case strings.EqualFold(raw, "Service Request"):
		return KindServiceRequest
	default:
		return KindUnknown
	}
}

// TicketStatus is the numeric status code used by the ticketing platform.
type TicketStatus int

const (
	StatusOpen     TicketStatus = 2
	StatusPending  TicketStatus = 3
	StatusResolved TicketStatus = 4
	StatusClosed   TicketStatus = 5
)

// Known reports whether the status is one of the four recognized codes.
// Unrecognized statuses are excluded from all counts.
func (s TicketStatus) Known() bool {
	return s >= StatusOpen && s <= StatusClosed
}

// InProgress reports whether the ticket is still being worked (open or pending).
func (s TicketStatus) InProgress() bool {
	return s == StatusOpen || s == StatusPending
}

// Completed reports whether the ticket has been resolved or closed.
func (s TicketStatus) Completed() bool {
	return s == StatusResolved || s == StatusClosed
}

// Label returns the human-readable status name.
func (s TicketStatus) Label() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusPending:
		return "Pending"
	case StatusResolved:
		return "Resolved"
	case StatusClosed:
		return "Closed"
	default:
		return "Status " + strconv.Itoa(int(s))
	}
}

// Ticket is a raw ticket record as returned by the ticketing platform.
// Records are immutable once fetched and are never persisted by this system.
type Ticket struct {
	ID        int64
	Kind      TicketKind
	Status    TicketStatus
	UnitID    *int64
	CreatedAt *time.Time
	UpdatedAt *time.Time
	Subject   string
}

// UpdatedOnOrAfter re-asserts the reporting-window cutoff client side. The
// source's updated_since filter boundary is not documented as inclusive or
// exclusive, so the consumer re-checks it. Tickets without an update timestamp
// pass, matching the server-side filter's best-effort behavior.
func (t *Ticket) UpdatedOnOrAfter(cutoff time.Time) bool {
	if t.UpdatedAt == nil {
		return true
	}
	return !t.UpdatedAt.Before(cutoff)
}
