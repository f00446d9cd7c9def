package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fairwayclub/league-engine/internal/domain/league"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

const selectLeagueColumns = `
SELECT id, name, format, holes_per_round, total_weeks, play_day, tee_time,
       start_date, status, current_week, course_id, tee_id,
       purse, elevated_weeks, point_multiplier, points_per_win, points_per_tie,
       champion, last_starting_notice, last_activated_on, last_reminder_key,
       last_processed_week, created_at, updated_at
  FROM leagues`

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	var row leagueTableModel
	err := r.db.GetContext(ctx, &row, selectLeagueColumns+` WHERE id = $1`, leagueID)
	if err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	lg, err := row.toDomain()
	if err != nil {
		return league.League{}, false, fmt.Errorf("decode league %s: %w", leagueID, err)
	}
	return lg, true, nil
}

func (r *LeagueRepository) ListByStatus(ctx context.Context, status league.Status) ([]league.League, error) {
	var rows []leagueTableModel
	err := r.db.SelectContext(ctx, &rows, selectLeagueColumns+` WHERE status = $1 ORDER BY id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list leagues by status: %w", err)
	}
	return rowsToLeagues(rows)
}

func (r *LeagueRepository) ListUpcomingStartingOn(ctx context.Context, startDate time.Time) ([]league.League, error) {
	var rows []leagueTableModel
	err := r.db.SelectContext(ctx, &rows,
		selectLeagueColumns+` WHERE status = 'upcoming' AND start_date::date = $1::date ORDER BY id`,
		startDate)
	if err != nil {
		return nil, fmt.Errorf("list upcoming leagues: %w", err)
	}
	return rowsToLeagues(rows)
}

func (r *LeagueRepository) ListActiveByPlayDay(ctx context.Context, day time.Weekday) ([]league.League, error) {
	var rows []leagueTableModel
	err := r.db.SelectContext(ctx, &rows,
		selectLeagueColumns+` WHERE status = 'active' AND play_day = $1 ORDER BY id`,
		int(day))
	if err != nil {
		return nil, fmt.Errorf("list active leagues by play day: %w", err)
	}
	return rowsToLeagues(rows)
}

// The transition updates put the guard and the write in one statement, so
// two concurrent processor runs cannot both claim the same transition.

func (r *LeagueRepository) MarkStartingNotice(ctx context.Context, leagueID, dateKey string) (bool, error) {
	return r.execClaim(ctx, `
UPDATE leagues
   SET last_starting_notice = $2, updated_at = NOW()
 WHERE id = $1
   AND status = 'upcoming'
   AND last_starting_notice IS DISTINCT FROM $2`,
		"mark starting notice", leagueID, dateKey)
}

func (r *LeagueRepository) Activate(ctx context.Context, leagueID, dateKey string) (bool, error) {
	return r.execClaim(ctx, `
UPDATE leagues
   SET status = 'active', current_week = 1, last_activated_on = $2, updated_at = NOW()
 WHERE id = $1
   AND status = 'upcoming'`,
		"activate league", leagueID, dateKey)
}

func (r *LeagueRepository) MarkReminderSent(ctx context.Context, leagueID, reminderKey string) (bool, error) {
	return r.execClaim(ctx, `
UPDATE leagues
   SET last_reminder_key = $2, updated_at = NOW()
 WHERE id = $1
   AND status = 'active'
   AND last_reminder_key IS DISTINCT FROM $2`,
		"mark reminder sent", leagueID, reminderKey)
}

func (r *LeagueRepository) AdvanceWeek(ctx context.Context, leagueID string, processedWeek int) (bool, error) {
	return r.execClaim(ctx, `
UPDATE leagues
   SET current_week = current_week + 1, last_processed_week = $2, updated_at = NOW()
 WHERE id = $1
   AND status = 'active'
   AND current_week = $2
   AND last_processed_week < $2`,
		"advance week", leagueID, processedWeek)
}

func (r *LeagueRepository) CompleteSeason(ctx context.Context, leagueID string, processedWeek int, champion league.Champion) (bool, error) {
	championJSON, err := marshalJSONB(champion)
	if err != nil {
		return false, fmt.Errorf("encode champion: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE leagues
   SET status = 'completed', last_processed_week = $2, champion = $3, updated_at = NOW()
 WHERE id = $1
   AND status = 'active'
   AND current_week = $2
   AND last_processed_week < $2`,
		leagueID, processedWeek, championJSON)
	if err != nil {
		return false, fmt.Errorf("complete season: %w", err)
	}
	return claimed(res)
}

func (r *LeagueRepository) execClaim(ctx context.Context, query, op string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return claimed(res)
}

func claimed(res interface{ RowsAffected() (int64, error) }) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func rowsToLeagues(rows []leagueTableModel) ([]league.League, error) {
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		lg, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode league %s: %w", row.ID, err)
		}
		out = append(out, lg)
	}
	return out, nil
}
