package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/fairwayclub/league-engine/internal/domain/member"
)

type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) ListActive(ctx context.Context, leagueID string) ([]member.Member, error) {
	var rows []memberTableModel
	err := r.db.SelectContext(ctx, &rows, `
SELECT league_id, user_id, display_name, avatar_url, status,
       total_points, net_sum, gross_sum, rounds_played, wins,
       current_position, previous_position, week_results,
       created_at, updated_at
  FROM league_members
 WHERE league_id = $1 AND status = $2
 ORDER BY user_id`,
		leagueID, member.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode member %s: %w", row.UserID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// ApplyWeekStats increments the cumulative counters and merges the week's
// snapshot into the week_results document in one statement. The snapshot
// key doubles as the replay guard: a week already recorded leaves the row
// untouched, so a retried run cannot double the counters.
func (r *MemberRepository) ApplyWeekStats(ctx context.Context, leagueID, userID string, stats member.WeekStats) error {
	weekKey := strconv.Itoa(stats.Week)
	snapshot, err := marshalJSONB(map[string]member.WeekSnapshot{
		weekKey: {
			Placement: stats.Placement,
			Points:    stats.Points,
			Net:       stats.Net,
			Gross:     stats.Gross,
		},
	})
	if err != nil {
		return fmt.Errorf("encode week snapshot: %w", err)
	}

	winInc := 0
	if stats.Won {
		winInc = 1
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE league_members
   SET total_points = total_points + $3,
       net_sum = net_sum + $4,
       gross_sum = gross_sum + $5,
       rounds_played = rounds_played + 1,
       wins = wins + $6,
       week_results = COALESCE(week_results, '{}'::jsonb) || $7::jsonb,
       updated_at = NOW()
 WHERE league_id = $1 AND user_id = $2
   AND NOT (COALESCE(week_results, '{}'::jsonb) ? $8)`,
		leagueID, userID, stats.Points, stats.Net, stats.Gross, winInc, snapshot, weekKey)
	if err != nil {
		return fmt.Errorf("apply week stats: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		var applied bool
		err := r.db.GetContext(ctx, &applied, `
SELECT COALESCE(week_results, '{}'::jsonb) ? $3
  FROM league_members
 WHERE league_id = $1 AND user_id = $2`,
			leagueID, userID, weekKey)
		if isNotFound(err) {
			return fmt.Errorf("member %s not found in league %s", userID, leagueID)
		}
		if err != nil {
			return fmt.Errorf("check week snapshot: %w", err)
		}
		// Week already applied; the replayed delta is a no-op.
		return nil
	}
	return nil
}

func (r *MemberRepository) UpdatePositions(ctx context.Context, leagueID string, updates []member.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update positions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, `
UPDATE league_members
   SET current_position = $3, previous_position = $4, updated_at = NOW()
 WHERE league_id = $1 AND user_id = $2`,
			leagueID, u.UserID, u.Position, u.PreviousPosition); err != nil {
			return fmt.Errorf("update position user=%s: %w", u.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update positions tx: %w", err)
	}
	return nil
}
