package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/fairwayclub/league-engine/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	var rows []teamTableModel
	err := r.db.SelectContext(ctx, &rows, `
SELECT id, league_id, name, member_ids, wins, losses, ties, points, week_records, created_at, updated_at
  FROM teams
 WHERE league_id = $1
 ORDER BY id`,
		leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode team %s: %w", row.ID, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TeamRepository) ListMatchups(ctx context.Context, leagueID string, week int) ([]team.Matchup, error) {
	var rows []matchupTableModel
	err := r.db.SelectContext(ctx, &rows, `
SELECT league_id, week, home_team_id, away_team_id
  FROM team_matchups
 WHERE league_id = $1 AND week = $2
 ORDER BY home_team_id`,
		leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("list matchups: %w", err)
	}

	out := make([]team.Matchup, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Matchup{
			LeagueID:   row.LeagueID,
			Week:       row.Week,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
		})
	}
	return out, nil
}

// ApplyMatchDelta increments the record and logs the delta under its week
// in week_records. The ledger key is the replay guard: a week already
// recorded leaves the row untouched.
func (r *TeamRepository) ApplyMatchDelta(ctx context.Context, leagueID, teamID string, week int, delta team.MatchDelta) error {
	weekKey := strconv.Itoa(week)
	record, err := marshalJSONB(map[string]team.MatchDelta{weekKey: delta})
	if err != nil {
		return fmt.Errorf("encode week record: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE teams
   SET wins = wins + $3,
       losses = losses + $4,
       ties = ties + $5,
       points = points + $6,
       week_records = COALESCE(week_records, '{}'::jsonb) || $7::jsonb,
       updated_at = NOW()
 WHERE league_id = $1 AND id = $2
   AND NOT (COALESCE(week_records, '{}'::jsonb) ? $8)`,
		leagueID, teamID, delta.Wins, delta.Losses, delta.Ties, delta.Points, record, weekKey)
	if err != nil {
		return fmt.Errorf("apply match delta: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		var applied bool
		err := r.db.GetContext(ctx, &applied, `
SELECT COALESCE(week_records, '{}'::jsonb) ? $3
  FROM teams
 WHERE league_id = $1 AND id = $2`,
			leagueID, teamID, weekKey)
		if isNotFound(err) {
			return fmt.Errorf("team %s not found in league %s", teamID, leagueID)
		}
		if err != nil {
			return fmt.Errorf("check week record: %w", err)
		}
		// Week already applied; the replayed delta is a no-op.
		return nil
	}
	return nil
}
