package member

const StatusActive = "active"

// WeekSnapshot is the per-week slice of a member's results, keyed by week
// number on the member document.
type WeekSnapshot struct {
	Placement int `json:"placement"`
	Points    int `json:"points"`
	Net       int `json:"net"`
	Gross     int `json:"gross"`
}

// Member is one participant's cumulative standing within a league. The
// standings updater is the only writer after creation, and it touches each
// member at most once per completed week.
type Member struct {
	UserID      string
	LeagueID    string
	DisplayName string
	AvatarURL   string
	Status      string

	TotalPoints  int
	NetSum       int
	GrossSum     int
	RoundsPlayed int
	Wins         int

	CurrentPosition  int
	PreviousPosition int

	WeekResults map[int]WeekSnapshot
}

// WeekStats is the delta applied to a member when a week resolves. All
// counter fields are increments; the snapshot is recorded under Week.
type WeekStats struct {
	Week      int
	Placement int
	Points    int
	Net       int
	Gross     int
	Won       bool
}

// PositionUpdate rewrites a member's league-wide position after the
// cumulative totals changed.
type PositionUpdate struct {
	UserID           string
	Position         int
	PreviousPosition int
}
