package member

import "context"

// Repository describes member persistence needs from the season engine.
// ApplyWeekStats must use atomic increments so re-reads during one run see
// consistent totals, and must apply each week at most once per member: a
// delta for a week already in WeekResults is a no-op, so a retried run
// cannot double the counters. UpdatePositions rewrites positions in bulk
// after all of a week's stats have been applied.
type Repository interface {
	ListActive(ctx context.Context, leagueID string) ([]Member, error)
	ApplyWeekStats(ctx context.Context, leagueID, userID string, stats WeekStats) error
	UpdatePositions(ctx context.Context, leagueID string, updates []PositionUpdate) error
}
