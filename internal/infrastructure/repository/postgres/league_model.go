package postgres

import (
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/league"
)

type leagueTableModel struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Format        string    `db:"format"`
	HolesPerRound int       `db:"holes_per_round"`
	TotalWeeks    int       `db:"total_weeks"`
	PlayDay       int       `db:"play_day"`
	TeeTime       string    `db:"tee_time"`
	StartDate     time.Time `db:"start_date"`
	Status        string    `db:"status"`
	CurrentWeek   int       `db:"current_week"`

	CourseID string `db:"course_id"`
	TeeID    string `db:"tee_id"`

	Purse           []byte  `db:"purse"`
	ElevatedWeeks   []byte  `db:"elevated_weeks"`
	PointMultiplier float64 `db:"point_multiplier"`
	PointsPerWin    int     `db:"points_per_win"`
	PointsPerTie    int     `db:"points_per_tie"`

	Champion []byte `db:"champion"`

	LastStartingNotice string `db:"last_starting_notice"`
	LastActivatedOn    string `db:"last_activated_on"`
	LastReminderKey    string `db:"last_reminder_key"`
	LastProcessedWeek  int    `db:"last_processed_week"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row leagueTableModel) toDomain() (league.League, error) {
	lg := league.League{
		ID:              row.ID,
		Name:            row.Name,
		Format:          league.Format(row.Format),
		HolesPerRound:   row.HolesPerRound,
		TotalWeeks:      row.TotalWeeks,
		PlayDay:         time.Weekday(row.PlayDay),
		TeeTime:         row.TeeTime,
		StartDate:       row.StartDate,
		Status:          league.Status(row.Status),
		CurrentWeek:     row.CurrentWeek,
		CourseID:        row.CourseID,
		TeeID:           row.TeeID,
		PointMultiplier: row.PointMultiplier,
		TeamScoring: league.TeamScoring{
			PointsPerWin: row.PointsPerWin,
			PointsPerTie: row.PointsPerTie,
		},
		LastStartingNotice: row.LastStartingNotice,
		LastActivatedOn:    row.LastActivatedOn,
		LastReminderKey:    row.LastReminderKey,
		LastProcessedWeek:  row.LastProcessedWeek,
	}

	if len(row.Purse) > 0 {
		var purse league.Purse
		if err := unmarshalJSONB(row.Purse, &purse); err != nil {
			return league.League{}, err
		}
		lg.Purse = &purse
	}
	if err := unmarshalJSONB(row.ElevatedWeeks, &lg.ElevatedWeeks); err != nil {
		return league.League{}, err
	}
	if len(row.Champion) > 0 {
		var champion league.Champion
		if err := unmarshalJSONB(row.Champion, &champion); err != nil {
			return league.League{}, err
		}
		lg.Champion = &champion
	}

	return lg, nil
}
