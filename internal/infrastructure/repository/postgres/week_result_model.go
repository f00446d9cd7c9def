package postgres

import (
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
)

type weekResultTableModel struct {
	LeagueID string `db:"league_id"`
	Week     int    `db:"week"`
	Elevated bool   `db:"elevated"`

	PrizeCents int64  `db:"prize_cents"`
	Currency   string `db:"currency"`

	WinnerUserID   string `db:"winner_user_id"`
	WinnerName     string `db:"winner_name"`
	WinnerNet      int    `db:"winner_net"`
	WinnerTeamID   string `db:"winner_team_id"`
	WinnerTeamName string `db:"winner_team_name"`

	Standings []byte `db:"standings"`
	Matchups  []byte `db:"matchups"`

	CreatedAt time.Time `db:"created_at"`
}

func (row weekResultTableModel) toDomain() (weekresult.WeekResult, error) {
	result := weekresult.WeekResult{
		LeagueID:       row.LeagueID,
		Week:           row.Week,
		Elevated:       row.Elevated,
		PrizeCents:     row.PrizeCents,
		Currency:       row.Currency,
		WinnerUserID:   row.WinnerUserID,
		WinnerName:     row.WinnerName,
		WinnerNet:      row.WinnerNet,
		WinnerTeamID:   row.WinnerTeamID,
		WinnerTeamName: row.WinnerTeamName,
		CreatedAt:      row.CreatedAt,
	}
	if err := unmarshalJSONB(row.Standings, &result.Standings); err != nil {
		return weekresult.WeekResult{}, err
	}
	if err := unmarshalJSONB(row.Matchups, &result.Matchups); err != nil {
		return weekresult.WeekResult{}, err
	}
	return result, nil
}
