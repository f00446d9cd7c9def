package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/domain/notification"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/platform/id"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

// notificationTTL bounds how long an engine notification stays visible
// before the cleanup job may drop it.
const notificationTTL = 30 * 24 * time.Hour

// NotifierService fans season events out to league members. It only writes
// notification records; rendering and push delivery happen downstream.
// At-most-once emission per logical event is the caller's job, enforced by
// the league's idempotency markers.
type NotifierService struct {
	notificationRepo notification.Repository
	idGen            id.Generator
	logger           *logging.Logger
	now              func() time.Time
}

func NewNotifierService(notificationRepo notification.Repository, idGen id.Generator, logger *logging.Logger) *NotifierService {
	if logger == nil {
		logger = logging.Default()
	}
	return &NotifierService{
		notificationRepo: notificationRepo,
		idGen:            idGen,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *NotifierService) SeasonStartingSoon(ctx context.Context, lg league.League, recipients []member.Member) error {
	return s.fanOut(ctx, recipients, func(m member.Member) notification.Notification {
		return notification.Notification{
			UserID:     m.UserID,
			Type:       notification.TypeSeasonStartingSoon,
			LeagueID:   lg.ID,
			LeagueName: lg.Name,
			Message:    notification.StartingSoonMessage(lg.Name, lg.StartDate),
		}
	})
}

func (s *NotifierService) SeasonStarted(ctx context.Context, lg league.League, recipients []member.Member) error {
	return s.fanOut(ctx, recipients, func(m member.Member) notification.Notification {
		return notification.Notification{
			UserID:     m.UserID,
			Type:       notification.TypeSeasonStarted,
			LeagueID:   lg.ID,
			LeagueName: lg.Name,
			WeekNumber: 1,
			Message:    notification.SeasonStartedMessage(lg.Name),
		}
	})
}

func (s *NotifierService) ScoreReminder(ctx context.Context, lg league.League, week int, recipients []member.Member) error {
	return s.fanOut(ctx, recipients, func(m member.Member) notification.Notification {
		return notification.Notification{
			UserID:     m.UserID,
			Type:       notification.TypeScoreReminder,
			LeagueID:   lg.ID,
			LeagueName: lg.Name,
			WeekNumber: week,
			Message:    notification.ScoreReminderMessage(lg.Name, week),
		}
	})
}

// WeeklyResult announces a resolved week to every active member. The copy
// differs per format: stroke play names the winning player, team match the
// winning team.
func (s *NotifierService) WeeklyResult(ctx context.Context, lg league.League, result weekresult.WeekResult, recipients []member.Member) error {
	var message, teamName string
	if result.WinnerTeamID != "" {
		teamName = result.WinnerTeamName
		message = notification.TeamWeekWinnerMessage(lg.Name, result.Week, result.WinnerTeamName, result.Elevated, result.PrizeCents, result.Currency)
	} else {
		message = notification.WeeklyWinnerMessage(lg.Name, result.Week, result.WinnerName, result.WinnerNet, result.Elevated, result.PrizeCents, result.Currency)
	}

	return s.fanOut(ctx, recipients, func(m member.Member) notification.Notification {
		return notification.Notification{
			UserID:     m.UserID,
			Type:       notification.TypeWeeklyResult,
			ActorID:    result.WinnerUserID,
			ActorName:  result.WinnerName,
			LeagueID:   lg.ID,
			LeagueName: lg.Name,
			WeekNumber: result.Week,
			TeamName:   teamName,
			Message:    message,
		}
	})
}

func (s *NotifierService) NewWeek(ctx context.Context, lg league.League, week int, recipients []member.Member) error {
	return s.fanOut(ctx, recipients, func(m member.Member) notification.Notification {
		return notification.Notification{
			UserID:     m.UserID,
			Type:       notification.TypeNewWeek,
			LeagueID:   lg.ID,
			LeagueName: lg.Name,
			WeekNumber: week,
			Message:    notification.NewWeekMessage(lg.Name, week, lg.IsElevatedWeek(week)),
		}
	})
}

func (s *NotifierService) SeasonComplete(ctx context.Context, lg league.League, champion league.Champion, recipients []member.Member) error {
	return s.fanOut(ctx, recipients, func(m member.Member) notification.Notification {
		teamName := ""
		if champion.IsTeam {
			teamName = champion.Name
		}
		return notification.Notification{
			UserID:     m.UserID,
			Type:       notification.TypeSeasonComplete,
			ActorID:    champion.ID,
			ActorName:  champion.Name,
			LeagueID:   lg.ID,
			LeagueName: lg.Name,
			TeamName:   teamName,
			Message:    notification.SeasonCompleteMessage(lg.Name, champion.Name, champion.PrizeCents, champion.Currency),
		}
	})
}

func (s *NotifierService) fanOut(ctx context.Context, recipients []member.Member, build func(member.Member) notification.Notification) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotifierService.fanOut")
	defer span.End()

	if len(recipients) == 0 {
		return nil
	}

	now := s.now()
	items := make([]notification.Notification, 0, len(recipients))
	for _, m := range recipients {
		item := build(m)

		newID, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate notification id: %w", err)
		}
		item.ID = newID
		item.Read = false
		item.CreatedAt = now
		item.ExpiresAt = now.Add(notificationTTL)

		items = append(items, item)
	}

	if err := s.notificationRepo.CreateBatch(ctx, items); err != nil {
		return fmt.Errorf("create notification batch: %w", err)
	}

	s.logger.DebugContext(ctx, "notification fan-out written", "type", string(items[0].Type), "count", len(items))
	return nil
}
