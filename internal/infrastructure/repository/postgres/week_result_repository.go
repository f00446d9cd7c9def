package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
)

type WeekResultRepository struct {
	db *sqlx.DB
}

func NewWeekResultRepository(db *sqlx.DB) *WeekResultRepository {
	return &WeekResultRepository{db: db}
}

// Create writes the week's snapshot once; a replayed completion run hits
// the (league_id, week) key and becomes a no-op.
func (r *WeekResultRepository) Create(ctx context.Context, result weekresult.WeekResult) error {
	standings, err := marshalJSONB(result.Standings)
	if err != nil {
		return fmt.Errorf("encode standings: %w", err)
	}
	matchups, err := marshalJSONB(result.Matchups)
	if err != nil {
		return fmt.Errorf("encode matchups: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO week_results (
    league_id, week, elevated, prize_cents, currency,
    winner_user_id, winner_name, winner_net, winner_team_id, winner_team_name,
    standings, matchups, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (league_id, week) DO NOTHING`,
		result.LeagueID, result.Week, result.Elevated, result.PrizeCents, result.Currency,
		result.WinnerUserID, result.WinnerName, result.WinnerNet, result.WinnerTeamID, result.WinnerTeamName,
		standings, matchups, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert week result: %w", err)
	}
	return nil
}

func (r *WeekResultRepository) GetByWeek(ctx context.Context, leagueID string, week int) (weekresult.WeekResult, bool, error) {
	var row weekResultTableModel
	err := r.db.GetContext(ctx, &row, `
SELECT league_id, week, elevated, prize_cents, currency,
       winner_user_id, winner_name, winner_net, winner_team_id, winner_team_name,
       standings, matchups, created_at
  FROM week_results
 WHERE league_id = $1 AND week = $2`,
		leagueID, week)
	if err != nil {
		if isNotFound(err) {
			return weekresult.WeekResult{}, false, nil
		}
		return weekresult.WeekResult{}, false, fmt.Errorf("get week result: %w", err)
	}

	result, err := row.toDomain()
	if err != nil {
		return weekresult.WeekResult{}, false, fmt.Errorf("decode week result %s/%d: %w", leagueID, week, err)
	}
	return result, true, nil
}
