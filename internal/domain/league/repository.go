package league

import (
	"context"
	"time"
)

// Repository describes league persistence needs from the season engine.
//
// The transition methods are compare-and-set updates: the guard (status
// value, marker mismatch) and the field writes happen in one statement, and
// the bool result reports whether the guard matched. A false result is the
// normal "another tick already did this" outcome, not an error.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	ListByStatus(ctx context.Context, status Status) ([]League, error)
	ListUpcomingStartingOn(ctx context.Context, startDate time.Time) ([]League, error)
	ListActiveByPlayDay(ctx context.Context, day time.Weekday) ([]League, error)

	// MarkStartingNotice records the "starts tomorrow" fan-out for dateKey.
	// Guard: status is upcoming and the marker differs from dateKey.
	MarkStartingNotice(ctx context.Context, leagueID, dateKey string) (bool, error)

	// Activate flips an upcoming league to active with current week 1.
	// Guard: status is upcoming.
	Activate(ctx context.Context, leagueID, dateKey string) (bool, error)

	// MarkReminderSent records the play-day reminder fan-out for reminderKey.
	// Guard: status is active and the marker differs from reminderKey.
	MarkReminderSent(ctx context.Context, leagueID, reminderKey string) (bool, error)

	// AdvanceWeek records processedWeek and moves the league to the next
	// week. Guard: status is active, current week equals processedWeek and
	// the processed-week marker is still behind it.
	AdvanceWeek(ctx context.Context, leagueID string, processedWeek int) (bool, error)

	// CompleteSeason records the final processed week, marks the league
	// completed and stores the champion. Same guard as AdvanceWeek.
	CompleteSeason(ctx context.Context, leagueID string, processedWeek int, champion Champion) (bool, error)
}
