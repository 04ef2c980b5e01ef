package domain

// OrgUnit is an organizational unit tickets are tagged with. Reference data,
// identified by a platform-assigned id (not necessarily sequential).
type OrgUnit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GroupingMember is one row of a grouping definition: a grouping is the set of
// rows sharing a grouping id.
type GroupingMember struct {
	GroupingID int64
	UnitID     int64
}

// GrantLevel discriminates the two kinds of access grant. A grant targets
// either a whole grouping or a single unit, never both.
type GrantLevel string

const (
	GrantGrouping GrantLevel = "GROUPING"
	GrantUnit     GrantLevel = "UNIT"
)

// AccessGrant links a user to a grouping or a single unit. A user may hold
// any number of grants; zero grants means zero visible units.
type AccessGrant struct {
	User     string
	Level    GrantLevel
	TargetID int64
}

// UnitSet is a set of permitted unit ids.
type UnitSet map[int64]struct{}

func NewUnitSet(ids ...int64) UnitSet {
	s := make(UnitSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s UnitSet) Add(id int64) {
	s[id] = struct{}{}
}

func (s UnitSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s UnitSet) Len() int {
	return len(s)
}
