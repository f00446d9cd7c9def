package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fairwayclub/league-engine/internal/domain/score"
)

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

const selectScoreColumns = `
SELECT league_id, user_id, week, course_id, tee_id, course_handicap,
       hole_scores, adjusted_scores, gross, net, status, created_at, updated_at
  FROM scores`

func (r *ScoreRepository) ListApprovedByWeek(ctx context.Context, leagueID string, week int) ([]score.Score, error) {
	var rows []scoreTableModel
	err := r.db.SelectContext(ctx, &rows,
		selectScoreColumns+` WHERE league_id = $1 AND week = $2 AND status = 'approved' ORDER BY user_id`,
		leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("list approved scores: %w", err)
	}
	return rowsToScores(rows)
}

func (r *ScoreRepository) ListSubmittedByWeek(ctx context.Context, leagueID string, week int) ([]score.Score, error) {
	var rows []scoreTableModel
	err := r.db.SelectContext(ctx, &rows,
		selectScoreColumns+` WHERE league_id = $1 AND week = $2 AND status IN ('approved', 'pending') ORDER BY user_id`,
		leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("list submitted scores: %w", err)
	}
	return rowsToScores(rows)
}

func rowsToScores(rows []scoreTableModel) ([]score.Score, error) {
	out := make([]score.Score, 0, len(rows))
	for _, row := range rows {
		sc, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode score user=%s week=%d: %w", row.UserID, row.Week, err)
		}
		out = append(out, sc)
	}
	return out, nil
}
