package team

// Team groups two or more league members for the team-match format.
type Team struct {
	ID        string
	LeagueID  string
	Name      string
	MemberIDs []string

	Wins   int
	Losses int
	Ties   int
	Points int

	// WeekRecords is the per-week delta ledger. Its keys double as the
	// replay guard: a week already recorded is never applied again.
	WeekRecords map[int]MatchDelta
}

// Matchup pairs two teams for one week. Matchups are configured by the
// league setup flow; the engine only reads them.
type Matchup struct {
	LeagueID   string
	Week       int
	HomeTeamID string
	AwayTeamID string
}

// MatchDelta is the increment applied to one team after its matchup
// resolves. At most one of Wins/Losses/Ties is set.
type MatchDelta struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
	Points int `json:"points"`
}
