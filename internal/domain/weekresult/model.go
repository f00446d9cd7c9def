package weekresult

import "time"

// Placement is one row of a week's ranked standings snapshot.
type Placement struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Placement   int    `json:"placement"`
	Points      int    `json:"points"`
	Net         int    `json:"net"`
	Gross       int    `json:"gross"`
}

// MatchupOutcome records one resolved team matchup. WinnerTeamID is nil
// for a tie and for a matchup where neither side had a scored member;
// the Tie flag separates the two.
type MatchupOutcome struct {
	HomeTeamID string  `json:"homeTeamId"`
	AwayTeamID string  `json:"awayTeamId"`
	HomeNet    int     `json:"homeNet"`
	AwayNet    int     `json:"awayNet"`
	HomeScored int     `json:"homeScored"`
	AwayScored int     `json:"awayScored"`
	WinnerID   *string `json:"winnerId"`
	Tie        bool    `json:"tie"`
}

// WeekResult is the immutable record of one week's resolved outcome,
// created exactly once per league per week.
type WeekResult struct {
	LeagueID string `json:"leagueId"`
	Week     int    `json:"week"`
	Elevated bool   `json:"elevated"`

	PrizeCents int64  `json:"prizeCents"`
	Currency   string `json:"currency"`

	WinnerUserID   string `json:"winnerUserId,omitempty"`
	WinnerName     string `json:"winnerName,omitempty"`
	WinnerNet      int    `json:"winnerNet,omitempty"`
	WinnerTeamID   string `json:"winnerTeamId,omitempty"`
	WinnerTeamName string `json:"winnerTeamName,omitempty"`

	Standings []Placement      `json:"standings"`
	Matchups  []MatchupOutcome `json:"matchups,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
