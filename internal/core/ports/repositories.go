package ports

import (
	"context"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
)

// ReferenceDataRepository supplies the reference tables access resolution is
// built from. Implementations exist for CSV flat files and PostgreSQL; both
// are read-only snapshots of externally maintained data.
type ReferenceDataRepository interface {
	ListUnits(ctx context.Context) ([]domain.OrgUnit, error)
	ListGroupingMembers(ctx context.Context) ([]domain.GroupingMember, error)
	ListGrants(ctx context.Context) ([]domain.AccessGrant, error)

	// ListUsernames returns the distinct usernames appearing in grant
	// records, sorted ascending.
	ListUsernames(ctx context.Context) ([]string, error)
}
