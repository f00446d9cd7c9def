package score

import "context"

// Repository describes score reads from the season engine. The engine
// never writes scores.
type Repository interface {
	// ListApprovedByWeek returns the approved submissions for one week.
	ListApprovedByWeek(ctx context.Context, leagueID string, week int) ([]Score, error)
	// ListSubmittedByWeek returns approved and pending submissions; a
	// pending score still suppresses the play-day reminder.
	ListSubmittedByWeek(ctx context.Context, leagueID string, week int) ([]Score, error)
}
