package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fairwayclub/league-engine/internal/domain/notification"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationInsertModel struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	Type        string `db:"type"`
	ActorID     string `db:"actor_id"`
	ActorName   string `db:"actor_name"`
	ActorAvatar string `db:"actor_avatar"`
	LeagueID    string `db:"league_id"`
	LeagueName  string `db:"league_name"`
	WeekNumber  int    `db:"week_number"`
	TeamName    string `db:"team_name"`
	Message     string `db:"message"`
	Read        bool   `db:"read"`

	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, items []notification.Notification) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]notificationInsertModel, 0, len(items))
	for _, n := range items {
		models = append(models, notificationInsertModel{
			ID:          n.ID,
			UserID:      n.UserID,
			Type:        string(n.Type),
			ActorID:     n.ActorID,
			ActorName:   n.ActorName,
			ActorAvatar: n.ActorAvatar,
			LeagueID:    n.LeagueID,
			LeagueName:  n.LeagueName,
			WeekNumber:  n.WeekNumber,
			TeamName:    n.TeamName,
			Message:     n.Message,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
			ExpiresAt:   n.ExpiresAt,
		})
	}

	_, err := r.db.NamedExecContext(ctx, `
INSERT INTO notifications (
    id, user_id, type, actor_id, actor_name, actor_avatar,
    league_id, league_name, week_number, team_name, message, read,
    created_at, expires_at
) VALUES (
    :id, :user_id, :type, :actor_id, :actor_name, :actor_avatar,
    :league_id, :league_name, :week_number, :team_name, :message, :read,
    :created_at, :expires_at
)`, models)
	if err != nil {
		return fmt.Errorf("insert notification batch: %w", err)
	}
	return nil
}
