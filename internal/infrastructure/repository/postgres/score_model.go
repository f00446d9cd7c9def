package postgres

import (
	"database/sql"
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/score"
)

type scoreTableModel struct {
	LeagueID string `db:"league_id"`
	UserID   string `db:"user_id"`
	Week     int    `db:"week"`

	CourseID       string `db:"course_id"`
	TeeID          string `db:"tee_id"`
	CourseHandicap int    `db:"course_handicap"`

	HoleScores     []byte `db:"hole_scores"`
	AdjustedScores []byte `db:"adjusted_scores"`

	Gross  int           `db:"gross"`
	Net    sql.NullInt64 `db:"net"`
	Status string        `db:"status"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row scoreTableModel) toDomain() (score.Score, error) {
	sc := score.Score{
		LeagueID:       row.LeagueID,
		UserID:         row.UserID,
		Week:           row.Week,
		CourseID:       row.CourseID,
		TeeID:          row.TeeID,
		CourseHandicap: row.CourseHandicap,
		Gross:          row.Gross,
		Status:         score.Status(row.Status),
	}
	if row.Net.Valid {
		net := int(row.Net.Int64)
		sc.Net = &net
	}
	if err := unmarshalJSONB(row.HoleScores, &sc.HoleScores); err != nil {
		return score.Score{}, err
	}
	if err := unmarshalJSONB(row.AdjustedScores, &sc.AdjustedScores); err != nil {
		return score.Score{}, err
	}
	return sc, nil
}
