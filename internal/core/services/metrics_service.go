package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	apperrors "github.com/lorrc/ticket-metrics-backend/internal/core/errors"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
)

const (
	minReportDays = 1
	maxReportDays = 365

	oldestOpenLimit = 3
)

// MetricsService is the aggregation engine: it combines resolved access with
// the ticket snapshot into the two per-kind metrics blocks.
type MetricsService struct {
	access    ports.AccessResolver
	source    ports.TicketSource
	ticketURL func(ticketID int64) string
	logger    *slog.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

var _ ports.MetricsService = (*MetricsService)(nil)

// NewMetricsService creates a new metrics service. instanceURL is the base URL
// of the ticketing platform, used to build deep links to individual tickets.
func NewMetricsService(
	access ports.AccessResolver,
	source ports.TicketSource,
	instanceURL string,
	logger *slog.Logger,
) *MetricsService {
	return &MetricsService{
		access: access,
		source: source,
		ticketURL: func(ticketID int64) string {
			return fmt.Sprintf("%s/a/tickets/%d", instanceURL, ticketID)
		},
		logger: logger.With("component", "metrics_service"),
		now:    time.Now,
	}
}

// SetNowFunc overrides the wall clock. Tests use this to pin the cutoff.
func (s *MetricsService) SetNowFunc(now func() time.Time) {
	s.now = now
}

// GetMetrics runs the fetch-then-filter pipeline. It is a pure function of
// its inputs, the ticket snapshot, and the wall clock: identical inputs
// against an unchanged snapshot yield identical counts.
func (s *MetricsService) GetMetrics(ctx context.Context, params ports.GetMetricsParams) (*domain.MetricsReport, error) {
	if params.Days < minReportDays || params.Days > maxReportDays {
		return nil, apperrors.ErrInvalidDays
	}

	generatedAt := s.now().UTC()
	cutoff := generatedAt.AddDate(0, 0, -params.Days)

	// Username omitted means no unit filter at all; a username that
	// resolves to an empty set means the filter is active and excludes
	// every ticket. The two produce materially different reports.
	filterActive := params.Username != ""

	var permitted domain.UnitSet
	accessibleUnits := []domain.OrgUnit{}
	if filterActive {
		resolved, err := s.access.Resolve(ctx, params.Username)
		if err != nil {
			return nil, err
		}
		permitted = resolved.Units
		accessibleUnits = resolved.UnitList
	}

	tickets, err := s.source.FetchUpdatedSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "computing metrics",
		"username", params.Username,
		"days", params.Days,
		"cutoff", cutoff.Format(time.RFC3339),
		"fetched", len(tickets),
		"unit_filter", filterActive,
	)

	report := &domain.MetricsReport{
		Incidents:       s.computeForKind(domain.KindIncident, tickets, cutoff, filterActive, permitted, accessibleUnits, generatedAt),
		ServiceRequests: s.computeForKind(domain.KindServiceRequest, tickets, cutoff, filterActive, permitted, accessibleUnits, generatedAt),
	}
	return report, nil
}

// computeForKind runs the full filter-count-rank pipeline for one ticket kind.
// Both kinds go through this single path so they cannot drift in behavior.
func (s *MetricsService) computeForKind(
	kind domain.TicketKind,
	tickets []domain.Ticket,
	cutoff time.Time,
	filterActive bool,
	permitted domain.UnitSet,
	accessibleUnits []domain.OrgUnit,
	generatedAt time.Time,
) domain.KindMetrics {
	m := domain.KindMetrics{
		Kind:              kind,
		OldestOpen:        []domain.TicketSummary{},
		InProgressTickets: []domain.TicketSummary{},
		CompletedTickets:  []domain.TicketSummary{},
		AccessibleUnits:   accessibleUnits,
		GeneratedAt:       generatedAt,
	}

	var surviving []domain.Ticket
	for _, t := range tickets {
		if t.Kind != kind {
			continue
		}
		if !t.UpdatedOnOrAfter(cutoff) {
			continue
		}
		if filterActive {
			if t.UnitID == nil || !permitted.Contains(*t.UnitID) {
				continue
			}
		}
		if !t.Status.Known() {
			continue
		}
		surviving = append(surviving, t)
	}

	for _, t := range surviving {
		switch t.Status {
		case domain.StatusOpen:
			m.Open++
		case domain.StatusPending:
			m.Pending++
		case domain.StatusResolved:
			m.Resolved++
		case domain.StatusClosed:
			m.Closed++
		}
	}

	m.TicketsRaised = len(surviving)
	m.InProgress = m.Open + m.Pending
	m.Completed = m.Resolved + m.Closed
	if m.TicketsRaised > 0 {
		m.ResolutionRate = round1(100 * float64(m.Completed) / float64(m.TicketsRaised))
	}

	// Ranked subsets are ordered oldest-first by creation time; tickets
	// without a creation time cannot be ranked and are left out.
	var rankable []domain.Ticket
	for _, t := range surviving {
		if t.CreatedAt != nil {
			rankable = append(rankable, t)
		}
	}
	sort.SliceStable(rankable, func(i, j int) bool {
		return rankable[i].CreatedAt.Before(*rankable[j].CreatedAt)
	})

	for _, t := range rankable {
		summary := s.summarize(t)
		if t.Status == domain.StatusOpen && len(m.OldestOpen) < oldestOpenLimit {
			m.OldestOpen = append(m.OldestOpen, summary)
		}
		if t.Status.InProgress() {
			m.InProgressTickets = append(m.InProgressTickets, summary)
		}
		if t.Status.Completed() {
			m.CompletedTickets = append(m.CompletedTickets, summary)
		}
	}

	return m
}

func (s *MetricsService) summarize(t domain.Ticket) domain.TicketSummary {
	return domain.TicketSummary{
		ID:          t.ID,
		Subject:     t.Subject,
		StatusLabel: t.Status.Label(),
		CreatedAt:   *t.CreatedAt,
		URL:         s.ticketURL(t.ID),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
