package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
)

// ReferenceCache wraps a ReferenceDataRepository with a process-lifetime,
// lazily populated, immutable-after-load snapshot. Reference data changes only
// out of band, so the snapshot is refreshed by restarting the process.
type ReferenceCache struct {
	source ports.ReferenceDataRepository
	logger *slog.Logger

	once sync.Once
	err  error

	units     []domain.OrgUnit
	groupings []domain.GroupingMember
	grants    []domain.AccessGrant
	usernames []string
}

var _ ports.ReferenceDataRepository = (*ReferenceCache)(nil)

// NewReferenceCache creates a cache around the given backing repository. No
// data is loaded until the first read.
func NewReferenceCache(source ports.ReferenceDataRepository, logger *slog.Logger) *ReferenceCache {
	return &ReferenceCache{
		source: source,
		logger: logger.With("component", "reference_cache"),
	}
}

// load populates the snapshot exactly once. A load failure is sticky: every
// subsequent read reports it, keeping the process loudly broken instead of
// serving half a snapshot.
func (c *ReferenceCache) load(ctx context.Context) error {
	c.once.Do(func() {
		c.units, c.err = c.source.ListUnits(ctx)
		if c.err != nil {
			return
		}
		c.groupings, c.err = c.source.ListGroupingMembers(ctx)
		if c.err != nil {
			return
		}
		c.grants, c.err = c.source.ListGrants(ctx)
		if c.err != nil {
			return
		}
		c.usernames, c.err = c.source.ListUsernames(ctx)
		if c.err != nil {
			return
		}

		c.logger.Info("reference data loaded",
			"units", len(c.units),
			"grouping_members", len(c.groupings),
			"grants", len(c.grants),
			"users", len(c.usernames),
		)
	})
	if c.err != nil {
		c.logger.Error("reference data load failed", "error", c.err)
	}
	return c.err
}

func (c *ReferenceCache) ListUnits(ctx context.Context) ([]domain.OrgUnit, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.units, nil
}

func (c *ReferenceCache) ListGroupingMembers(ctx context.Context) ([]domain.GroupingMember, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.groupings, nil
}

func (c *ReferenceCache) ListGrants(ctx context.Context) ([]domain.AccessGrant, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.grants, nil
}

func (c *ReferenceCache) ListUsernames(ctx context.Context) ([]string, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.usernames, nil
}
