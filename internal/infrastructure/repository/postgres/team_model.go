package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/fairwayclub/league-engine/internal/domain/team"
)

type teamTableModel struct {
	ID        string         `db:"id"`
	LeagueID  string         `db:"league_id"`
	Name      string         `db:"name"`
	MemberIDs pq.StringArray `db:"member_ids"`

	Wins   int `db:"wins"`
	Losses int `db:"losses"`
	Ties   int `db:"ties"`
	Points int `db:"points"`

	WeekRecords []byte `db:"week_records"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row teamTableModel) toDomain() (team.Team, error) {
	t := team.Team{
		ID:        row.ID,
		LeagueID:  row.LeagueID,
		Name:      row.Name,
		MemberIDs: []string(row.MemberIDs),
		Wins:      row.Wins,
		Losses:    row.Losses,
		Ties:      row.Ties,
		Points:    row.Points,
	}
	if err := unmarshalJSONB(row.WeekRecords, &t.WeekRecords); err != nil {
		return team.Team{}, err
	}
	return t, nil
}

type matchupTableModel struct {
	LeagueID   string `db:"league_id"`
	Week       int    `db:"week"`
	HomeTeamID string `db:"home_team_id"`
	AwayTeamID string `db:"away_team_id"`
}
