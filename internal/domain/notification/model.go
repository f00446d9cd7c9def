package notification

import (
	"context"
	"time"
)

type Type string

const (
	TypeSeasonStartingSoon Type = "league_starting_soon"
	TypeSeasonStarted      Type = "league_started"
	TypeScoreReminder      Type = "score_reminder"
	TypeWeeklyResult       Type = "weekly_result"
	TypeNewWeek            Type = "new_week"
	TypeSeasonComplete     Type = "season_complete"
)

// Notification is one record handed to the delivery pipeline. The engine
// only writes these; rendering, push delivery and read-state sync live
// elsewhere.
type Notification struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Type   Type   `json:"type"`

	ActorID     string `json:"actorId,omitempty"`
	ActorName   string `json:"actorName,omitempty"`
	ActorAvatar string `json:"actorAvatar,omitempty"`

	LeagueID   string `json:"leagueId,omitempty"`
	LeagueName string `json:"leagueName,omitempty"`
	WeekNumber int    `json:"weekNumber,omitempty"`
	TeamName   string `json:"teamName,omitempty"`

	Message string `json:"message"`
	Read    bool   `json:"read"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Repository is the notification sink. Delivery is out of scope; callers
// guarantee at-most-once emission per logical event.
type Repository interface {
	CreateBatch(ctx context.Context, items []Notification) error
}
