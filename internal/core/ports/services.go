package ports

import (
	"context"
	"time"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
)

// ResolvedAccess is the outcome of expanding a user's grants.
type ResolvedAccess struct {
	// Units is the set of permitted unit ids. Empty when the user holds no
	// grants; callers must distinguish that from "no filter requested",
	// which is signalled by not resolving at all.
	Units domain.UnitSet

	// UnitList is the display form of Units, sorted by unit id.
	UnitList []domain.OrgUnit
}

// AccessResolver expands a username into the set of organisational units the
// user is permitted to see.
type AccessResolver interface {
	Resolve(ctx context.Context, username string) (*ResolvedAccess, error)
}

// UserDirectory lists the usernames known to the access-grant records.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]string, error)
}

// TicketSource retrieves raw ticket records updated since a cutoff from the
// external ticketing platform. Page-level failures are absorbed: the returned
// slice holds whatever was accumulated before the failure.
type TicketSource interface {
	FetchUpdatedSince(ctx context.Context, since time.Time) ([]domain.Ticket, error)
}

// GetMetricsParams is the input for one aggregation call.
type GetMetricsParams struct {
	// Username scopes the report to the user's permitted units. Empty means
	// no unit filtering at all.
	Username string

	// Days is the reporting window, valid range 1..365.
	Days int
}

// MetricsService computes the incident / service-request metrics report.
type MetricsService interface {
	GetMetrics(ctx context.Context, params GetMetricsParams) (*domain.MetricsReport, error)
}
