package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/lorrc/ticket-metrics-backend/internal/core/ports"
)

const (
	unitsFile     = "units.csv"
	groupingsFile = "groupings.csv"
	grantsFile    = "grants.csv"
)

// ReferenceRepository reads the three reference tables from CSV files in a
// directory. The files are exports from the organisation's admin tooling:
// they may start with a UTF-8 BOM, and individual malformed rows are skipped
// with a warning rather than failing the whole load.
type ReferenceRepository struct {
	dir    string
	logger *slog.Logger
}

var _ ports.ReferenceDataRepository = (*ReferenceRepository)(nil)

// NewReferenceRepository creates a repository reading from dir.
func NewReferenceRepository(dir string, logger *slog.Logger) *ReferenceRepository {
	return &ReferenceRepository{
		dir:    dir,
		logger: logger.With("component", "csv_reference_repository"),
	}
}

// ListUnits loads units.csv (ID,Name).
func (r *ReferenceRepository) ListUnits(ctx context.Context) ([]domain.OrgUnit, error) {
	rows, err := r.readFile(unitsFile, []string{"ID", "Name"})
	if err != nil {
		return nil, err
	}

	units := make([]domain.OrgUnit, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			r.logger.Warn("skipping unit row with invalid id", "file", unitsFile, "value", row[0])
			continue
		}
		name := strings.TrimSpace(row[1])
		if name == "" {
			r.logger.Warn("skipping unit row with empty name", "file", unitsFile, "id", id)
			continue
		}
		units = append(units, domain.OrgUnit{ID: id, Name: name})
	}
	return units, nil
}

// ListGroupingMembers loads groupings.csv (GroupingId,UnitId): one row per
// (grouping, member) pair.
func (r *ReferenceRepository) ListGroupingMembers(ctx context.Context) ([]domain.GroupingMember, error) {
	rows, err := r.readFile(groupingsFile, []string{"GroupingId", "UnitId"})
	if err != nil {
		return nil, err
	}

	members := make([]domain.GroupingMember, 0, len(rows))
	for _, row := range rows {
		groupingID, err1 := strconv.ParseInt(row[0], 10, 64)
		unitID, err2 := strconv.ParseInt(row[1], 10, 64)
		if err1 != nil || err2 != nil {
			r.logger.Warn("skipping grouping row with invalid ids",
				"file", groupingsFile, "grouping_id", row[0], "unit_id", row[1])
			continue
		}
		members = append(members, domain.GroupingMember{GroupingID: groupingID, UnitID: unitID})
	}
	return members, nil
}

// ListGrants loads grants.csv (User,AccessLevel,Id). AccessLevel is either
// "Grouping" or "Unit"; rows with any other level are skipped.
func (r *ReferenceRepository) ListGrants(ctx context.Context) ([]domain.AccessGrant, error) {
	rows, err := r.readFile(grantsFile, []string{"User", "AccessLevel", "Id"})
	if err != nil {
		return nil, err
	}

	grants := make([]domain.AccessGrant, 0, len(rows))
	for _, row := range rows {
		user := strings.TrimSpace(row[0])
		level, ok := parseAccessLevel(row[1])
		targetID, err := strconv.ParseInt(row[2], 10, 64)
		if user == "" || !ok || err != nil {
			r.logger.Warn("skipping invalid grant row",
				"file", grantsFile, "user", row[0], "level", row[1], "id", row[2])
			continue
		}
		grants = append(grants, domain.AccessGrant{User: user, Level: level, TargetID: targetID})
	}
	return grants, nil
}

// ListUsernames derives the distinct usernames from grants.csv.
func (r *ReferenceRepository) ListUsernames(ctx context.Context) ([]string, error) {
	grants, err := r.ListGrants(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(grants))
	usernames := make([]string, 0, len(grants))
	for _, g := range grants {
		if _, ok := seen[g.User]; ok {
			continue
		}
		seen[g.User] = struct{}{}
		usernames = append(usernames, g.User)
	}
	sort.Strings(usernames)
	return usernames, nil
}

func parseAccessLevel(raw string) (domain.GrantLevel, bool) {
	switch strings.TrimSpace(raw) {
	case "Grouping":
		return domain.GrantGrouping, true
	case "Unit":
		return domain.GrantUnit, true
	default:
		return "", false
	}
}

// readFile opens a CSV file, validates its header, and returns the data rows
// trimmed to the expected column count.
func (r *ReferenceRepository) readFile(name string, header []string) ([][]string, error) {
	path := filepath.Join(r.dir, name)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", name, err)
	}
	if len(first) > 0 {
		first[0] = strings.TrimPrefix(first[0], "\uFEFF")
	}
	if !headerMatches(first, header) {
		return nil, fmt.Errorf("%s: expected header %v, got %v", name, header, first)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if len(record) < len(header) {
			r.logger.Warn("skipping truncated row", "file", name, "row", record)
			continue
		}
		rows = append(rows, record[:len(header)])
	}
	return rows, nil
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return false
		}
	}
	return true
}
