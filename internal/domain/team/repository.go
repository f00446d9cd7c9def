package team

import "context"

// Repository describes team persistence needs from the season engine.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
	ListMatchups(ctx context.Context, leagueID string, week int) ([]Matchup, error)
	// ApplyMatchDelta increments a team's record for one week at most
	// once: a delta for a week already in the team's ledger is a no-op.
	ApplyMatchDelta(ctx context.Context, leagueID, teamID string, week int, delta MatchDelta) error
}
