package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
)

// AccessService resolves usernames into permitted unit sets by expanding
// grant records against the reference data.
type AccessService struct {
	refData ports.ReferenceDataRepository
	logger  *slog.Logger
}

var (
	_ ports.AccessResolver = (*AccessService)(nil)
	_ ports.UserDirectory  = (*AccessService)(nil)
)

// NewAccessService creates a new access service.
func NewAccessService(refData ports.ReferenceDataRepository, logger *slog.Logger) *AccessService {
	return &AccessService{
		refData: refData,
		logger:  logger.With("component", "access_service"),
	}
}

// Resolve expands every grant held by username into a set of unit ids.
// GROUPING grants contribute all member units of the target grouping, UNIT
// grants contribute the target directly; grants with any other level are
// ignored. A user with no grants resolves to an empty set, which is a valid
// outcome, not an error.
func (s *AccessService) Resolve(ctx context.Context, username string) (*ports.ResolvedAccess, error) {
	grants, err := s.refData.ListGrants(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing grants: %w", err)
	}

	var userGrants []domain.AccessGrant
	for _, g := range grants {
		if g.User == username {
			userGrants = append(userGrants, g)
		}
	}

	units := domain.NewUnitSet()

	if len(userGrants) == 0 {
		s.logger.WarnContext(ctx, "no access grants configured for user", "username", username)
		return &ports.ResolvedAccess{Units: units, UnitList: []domain.OrgUnit{}}, nil
	}

	var groupingIndex map[int64][]int64
	for _, g := range userGrants {
		switch g.Level {
		case domain.GrantGrouping:
			if groupingIndex == nil {
				groupingIndex, err = s.buildGroupingIndex(ctx)
				if err != nil {
					return nil, err
				}
			}
			for _, unitID := range groupingIndex[g.TargetID] {
				units.Add(unitID)
			}
		case domain.GrantUnit:
			units.Add(g.TargetID)
		default:
			s.logger.WarnContext(ctx, "skipping grant with unrecognized level",
				"username", username, "level", string(g.Level))
		}
	}

	unitList, err := s.describeUnits(ctx, units)
	if err != nil {
		return nil, err
	}

	return &ports.ResolvedAccess{Units: units, UnitList: unitList}, nil
}

// ListUsers returns the distinct usernames present in the grant records.
func (s *AccessService) ListUsers(ctx context.Context) ([]string, error) {
	usernames, err := s.refData.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing usernames: %w", err)
	}
	return usernames, nil
}

func (s *AccessService) buildGroupingIndex(ctx context.Context) (map[int64][]int64, error) {
	members, err := s.refData.ListGroupingMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing grouping members: %w", err)
	}

	index := make(map[int64][]int64)
	for _, m := range members {
		index[m.GroupingID] = append(index[m.GroupingID], m.UnitID)
	}
	return index, nil
}

// describeUnits turns a unit set into a display list sorted by id. Units the
// reference table does not know keep a placeholder name rather than being
// dropped, so a grant to a stale unit id stays visible.
func (s *AccessService) describeUnits(ctx context.Context, units domain.UnitSet) ([]domain.OrgUnit, error) {
	all, err := s.refData.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}

	names := make(map[int64]string, len(all))
	for _, u := range all {
		names[u.ID] = u.Name
	}

	list := make([]domain.OrgUnit, 0, units.Len())
	for id := range units {
		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("Unit %d", id)
		}
		list = append(list, domain.OrgUnit{ID: id, Name: name})
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}
