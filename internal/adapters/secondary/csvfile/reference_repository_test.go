package csvfile_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lorrc/ticket-metrics-backend/internal/adapters/secondary/csvfile"
	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newRepo(dir string) *csvfile.ReferenceRepository {
	return csvfile.NewReferenceRepository(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReferenceRepository(t *testing.T) {
	ctx := context.Background()

	dir := writeFiles(t, map[string]string{
		"units.csv":     "ID,Name\n100,Network Operations\n200,Field Services\nbad,Oops\n",
		"groupings.csv": "GroupingId,UnitId\n1,100\n1,200\n2,300\nx,y\n",
		"grants.csv":    "User,AccessLevel,Id\nalice,Grouping,1\nbob,Unit,200\nalice,Unit,300\ncarol,Region,9\n",
	})
	repo := newRepo(dir)

	t.Run("lists units skipping malformed rows", func(t *testing.T) {
		units, err := repo.ListUnits(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.OrgUnit{
			{ID: 100, Name: "Network Operations"},
			{ID: 200, Name: "Field Services"},
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

	t.Run("lists grants skipping unknown levels", func(t *testing.T) {
		grants, err := repo.ListGrants(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.AccessGrant{
			{User: "alice", Level: domain.GrantGrouping, TargetID: 1},
			{User: "bob", Level: domain.GrantUnit, TargetID: 200},
			{User: "alice", Level: domain.GrantUnit, TargetID: 300},
		}, grants)
	})

	t.Run("derives distinct sorted usernames", func(t *testing.T) {
		users, err := repo.ListUsernames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, users)
	})

	t.Run("tolerates a UTF-8 BOM", func(t *testing.T) {
		bomDir := writeFiles(t, map[string]string{
			"units.csv": "\uFEFFID,Name\n1,Ops\n",
		})
		units, err := newRepo(bomDir).ListUnits(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.OrgUnit{{ID: 1, Name: "Ops"}}, units)
	})

	t.Run("rejects a wrong header", func(t *testing.T) {
		badDir := writeFiles(t, map[string]string{
			"units.csv": "Identifier,Label\n1,Ops\n",
		})
		_, err := newRepo(badDir).ListUnits(ctx)
		assert.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := newRepo(t.TempDir()).ListGrants(ctx)
		assert.Error(t, err)
	})
}
