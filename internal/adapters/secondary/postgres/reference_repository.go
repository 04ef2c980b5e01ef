package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
)

// ReferenceRepository reads the reference tables from PostgreSQL. The tables
// are populated by an external sync job; this system never writes to them.
type ReferenceRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ReferenceDataRepository = (*ReferenceRepository)(nil)

func NewReferenceRepository(pool *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{pool: pool}
}

func (r *ReferenceRepository) ListUnits(ctx context.Context) ([]domain.OrgUnit, error) {
	const query = `
SELECT id, name
FROM org_units
ORDER BY id
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.OrgUnit
	for rows.Next() {
		var u domain.OrgUnit
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (r *ReferenceRepository) ListGroupingMembers(ctx context.Context) ([]domain.GroupingMember, error) {
	const query = `
SELECT grouping_id, unit_id
FROM grouping_members
ORDER BY grouping_id, unit_id
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.GroupingMember
	for rows.Next() {
		var m domain.GroupingMember
		if err := rows.Scan(&m.GroupingID, &m.UnitID); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *ReferenceRepository) ListGrants(ctx context.Context) ([]domain.AccessGrant, error) {
	const query = `
SELECT username, level, target_id
FROM access_grants
ORDER BY username, level, target_id
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []domain.AccessGrant
	for rows.Next() {
		var (
			g     domain.AccessGrant
			level string
		)
		if err := rows.Scan(&g.User, &level, &g.TargetID); err != nil {
			return nil, err
		}
		g.Level = domain.GrantLevel(level)
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (r *ReferenceRepository) ListUsernames(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT username
FROM access_grants
ORDER BY username
`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		usernames = append(usernames, name)
	}
	return usernames, rows.Err()
}
