package domain

import "time"

// TicketSummary is a display row for one ticket in a ranked subset. URL deep
// links to the ticket on the source platform.
type TicketSummary struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	StatusLabel string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	URL         string    `json:"url"`
}

// KindMetrics holds the computed metrics for one ticket kind. Both kinds carry
// the same accessible-units list; it is resolved once per request.
type KindMetrics struct {
	Kind TicketKind `json:"kind"`

	Open     int `json:"open"`
	Pending  int `json:"pending"`
	Resolved int `json:"resolved"`
	Closed   int `json:"closed"`

	TicketsRaised int `json:"ticketsRaised"`
	InProgress    int `json:"inProgress"`
	Completed     int `json:"completed"`

	// ResolutionRate is 100 * Completed / TicketsRaised rounded to one
	// decimal, and 0 when TicketsRaised is 0.
	ResolutionRate float64 `json:"resolutionRate"`

	// OldestOpen holds at most the three oldest open tickets by creation
	// time. The other two subsets are unlimited. Tickets without a creation
	// time are excluded from all three.
	OldestOpen        []TicketSummary `json:"oldestOpen"`
	InProgressTickets []TicketSummary `json:"inProgressTickets"`
	CompletedTickets  []TicketSummary `json:"completedTickets"`

	AccessibleUnits []OrgUnit `json:"accessibleUnits"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

// MetricsReport is the full response for one aggregation call: two independent
// per-kind blocks computed from the same ticket snapshot.
type MetricsReport struct {
	Incidents       KindMetrics `json:"incidents"`
	ServiceRequests KindMetrics `json:"serviceRequests"`
}
