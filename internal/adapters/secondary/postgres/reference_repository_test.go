package postgres

import (
	"context"
	"testing"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReferenceData(t *testing.T, ctx context.Context) {
	t.Helper()

	_, err := testPool.Exec(ctx, `
TRUNCATE access_grants, grouping_members, org_units;

INSERT INTO org_units (id, name) VALUES
    (100, 'Network Operations'),
    (200, 'Field Services'),
    (300, 'Finance');

INSERT INTO grouping_members (grouping_id, unit_id) VALUES
    (1, 100),
    (1, 200),
    (2, 300);

INSERT INTO access_grants (username, level, target_id) VALUES
    ('alice', 'GROUPING', 1),
    ('alice', 'UNIT', 300),
    ('bob', 'UNIT', 200);
`)
	require.NoError(t, err)
}

func TestReferenceRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	seedReferenceData(t, ctx)

	repo := NewReferenceRepository(testPool)

	t.Run("lists units ordered by id", func(t *testing.T) {
		units, err := repo.ListUnits(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.OrgUnit{
			{ID: 100, Name: "Network Operations"},
			{ID: 200, Name: "Field Services"},
			{ID: 300, Name: "Finance"},
		}, units)
	})

	t.Run("lists grouping members", func(t *testing.T) {
		members, err := repo.ListGroupingMembers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.GroupingMember{
			{GroupingID: 1, UnitID: 100},
			{GroupingID: 1, UnitID: 200},
			{GroupingID: 2, UnitID: 300},
		}, members)
	})

	t.Run("lists grants with typed levels", func(t *testing.T) {
		grants, err := repo.ListGrants(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.AccessGrant{
			{User: "alice", Level: domain.GrantGrouping, TargetID: 1},
			{User: "alice", Level: domain.GrantUnit, TargetID: 300},
			{User: "bob", Level: domain.GrantUnit, TargetID: 200},
		}, grants)
	})

	t.Run("lists distinct usernames", func(t *testing.T) {
		usernames, err := repo.ListUsernames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, usernames)
	})
}
