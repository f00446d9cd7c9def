package weekresult

import "context"

// Repository persists week results. Create must be idempotent on the
// (league, week) key: a second create for the same pair is a no-op so a
// replayed completion run cannot produce a conflicting record.
type Repository interface {
	Create(ctx context.Context, result WeekResult) error
	GetByWeek(ctx context.Context, leagueID string, week int) (WeekResult, bool, error)
}
