package league

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Format string

const (
	FormatStroke    Format = "stroke"
	FormatTeamMatch Format = "team_match"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Purse is the configured prize money for a season. Amounts are cents.
type Purse struct {
	SeasonPoolCents   int64
	WeeklyPoolCents   int64
	ElevatedPoolCents int64
	Currency          string
}

// TeamScoring configures the team-match format.
type TeamScoring struct {
	PointsPerWin int
	PointsPerTie int
}

// Champion is recorded on the league when a season completes.
type Champion struct {
	ID         string
	Name       string
	IsTeam     bool
	PrizeCents int64
	Currency   string
}

// League is a multi-week competitive season. It is created by the league
// setup flow; after creation only the season engine mutates it (status,
// current week, idempotency markers, champion).
type League struct {
	ID            string `validate:"required"`
	Name          string `validate:"required"`
	Format        Format `validate:"oneof=stroke team_match"`
	HolesPerRound int    `validate:"oneof=9 18"`
	TotalWeeks    int    `validate:"min=1"`
	PlayDay       time.Weekday
	TeeTime       string `validate:"required"` // "15:04" wall clock in the processor zone
	StartDate     time.Time
	Status        Status
	CurrentWeek   int

	CourseID string
	TeeID    string

	Purse           *Purse
	ElevatedWeeks   []int
	PointMultiplier float64
	TeamScoring     TeamScoring

	Champion *Champion

	// Legacy flat purse fields still present on older league documents.
	// Normalize folds them into Purse so scoring code never sees them.
	LegacyWeeklyPotCents int64
	LegacySeasonPotCents int64
	LegacyBonusWeeks     []int

	// Idempotency markers, written together with their transitions.
	LastStartingNotice string // date key of the "starts tomorrow" fan-out
	LastActivatedOn    string // date key of activation
	LastReminderKey    string // date key + week of the last reminder fan-out
	LastProcessedWeek  int
}

var validate = validator.New()

func (l League) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("league %s: %w", l.ID, err)
	}
	for _, week := range l.ElevatedWeeks {
		if week < 1 || week > l.TotalWeeks {
			return fmt.Errorf("league %s: elevated week %d outside 1..%d", l.ID, week, l.TotalWeeks)
		}
	}
	if l.Format == FormatTeamMatch && l.TeamScoring.PointsPerWin <= 0 {
		return fmt.Errorf("league %s: team match requires points per win", l.ID)
	}
	return nil
}

// Normalize migrates legacy document shapes once per read: old flat pot
// fields become the Purse sub-structure, and defaults are applied.
func (l *League) Normalize() {
	if l.Purse == nil && (l.LegacyWeeklyPotCents > 0 || l.LegacySeasonPotCents > 0) {
		l.Purse = &Purse{
			SeasonPoolCents: l.LegacySeasonPotCents,
			WeeklyPoolCents: l.LegacyWeeklyPotCents,
		}
	}
	l.LegacyWeeklyPotCents = 0
	l.LegacySeasonPotCents = 0

	if len(l.ElevatedWeeks) == 0 && len(l.LegacyBonusWeeks) > 0 {
		l.ElevatedWeeks = l.LegacyBonusWeeks
	}
	l.LegacyBonusWeeks = nil

	if l.Purse != nil && strings.TrimSpace(l.Purse.Currency) == "" {
		l.Purse.Currency = "USD"
	}
	if l.PointMultiplier <= 0 {
		l.PointMultiplier = defaultElevatedMultiplier
	}
	if l.Format == FormatTeamMatch && l.TeamScoring.PointsPerTie <= 0 {
		l.TeamScoring.PointsPerTie = l.TeamScoring.PointsPerWin / 2
	}
}

// TeeTimeOfDay parses the configured tee time.
func (l League) TeeTimeOfDay() (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(l.TeeTime), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("league %s: malformed tee time %q", l.ID, l.TeeTime)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("league %s: malformed tee hour %q", l.ID, l.TeeTime)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("league %s: malformed tee minute %q", l.ID, l.TeeTime)
	}
	return hour, minute, nil
}
