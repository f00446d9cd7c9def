package postgres

import (
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/member"
)

type memberTableModel struct {
	LeagueID    string `db:"league_id"`
	UserID      string `db:"user_id"`
	DisplayName string `db:"display_name"`
	AvatarURL   string `db:"avatar_url"`
	Status      string `db:"status"`

	TotalPoints  int `db:"total_points"`
	NetSum       int `db:"net_sum"`
	GrossSum     int `db:"gross_sum"`
	RoundsPlayed int `db:"rounds_played"`
	Wins         int `db:"wins"`

	CurrentPosition  int `db:"current_position"`
	PreviousPosition int `db:"previous_position"`

	WeekResults []byte `db:"week_results"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row memberTableModel) toDomain() (member.Member, error) {
	m := member.Member{
		LeagueID:         row.LeagueID,
		UserID:           row.UserID,
		DisplayName:      row.DisplayName,
		AvatarURL:        row.AvatarURL,
		Status:           row.Status,
		TotalPoints:      row.TotalPoints,
		NetSum:           row.NetSum,
		GrossSum:         row.GrossSum,
		RoundsPlayed:     row.RoundsPlayed,
		Wins:             row.Wins,
		CurrentPosition:  row.CurrentPosition,
		PreviousPosition: row.PreviousPosition,
	}
	if err := unmarshalJSONB(row.WeekResults, &m.WeekResults); err != nil {
		return member.Member{}, err
	}
	return m, nil
}
