package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/domain/score"
	"github.com/fairwayclub/league-engine/internal/domain/team"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

// Reminders go out a fixed offset after the tee time, long enough for the
// round to be over, and stay eligible for an hour on either side of that
// mark so a slightly early or late tick still catches them.
const (
	reminderOffset18 = 6 * time.Hour
	reminderOffset9  = 4 * time.Hour
	reminderWindow   = time.Hour
)

// SeasonService owns every league lifecycle transition: the eve-of-season
// notice, activation, the play-day score reminder, and week completion with
// its advance-or-finish decision. Each transition is guarded by a
// compare-and-set marker on the league, so replayed or overlapping runs
// settle to exactly-once effects.
type SeasonService struct {
	leagueRepo     league.Repository
	memberRepo     member.Repository
	teamRepo       team.Repository
	scoreRepo      score.Repository
	weekResultRepo weekresult.Repository
	strategies     map[league.Format]WeekStrategy
	notifier       *NotifierService
	logger         *logging.Logger
	now            func() time.Time
}

func NewSeasonService(
	leagueRepo league.Repository,
	memberRepo member.Repository,
	teamRepo team.Repository,
	scoreRepo score.Repository,
	weekResultRepo weekresult.Repository,
	strategies map[league.Format]WeekStrategy,
	notifier *NotifierService,
	logger *logging.Logger,
) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonService{
		leagueRepo:     leagueRepo,
		memberRepo:     memberRepo,
		teamRepo:       teamRepo,
		scoreRepo:      scoreRepo,
		weekResultRepo: weekResultRepo,
		strategies:     strategies,
		notifier:       notifier,
		logger:         logger,
		now:            time.Now,
	}
}

// NotifyUpcomingStart sends the "starts tomorrow" fan-out for an upcoming
// league, at most once per date key.
func (s *SeasonService) NotifyUpcomingStart(ctx context.Context, lg league.League, dateKey string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.NotifyUpcomingStart")
	defer span.End()

	if lg.Status != league.StatusUpcoming || lg.LastStartingNotice == dateKey {
		return false, nil
	}

	// Claim the marker before any fan-out so a racing run cannot send the
	// notice twice.
	marked, err := s.leagueRepo.MarkStartingNotice(ctx, lg.ID, dateKey)
	if err != nil {
		return false, fmt.Errorf("mark starting notice: %w", err)
	}
	if !marked {
		s.logger.DebugContext(ctx, "starting notice already marked", "league_id", lg.ID, "date_key", dateKey)
		return false, nil
	}

	members, err := s.memberRepo.ListActive(ctx, lg.ID)
	if err != nil {
		return false, fmt.Errorf("list members: %w", err)
	}
	if err := s.notifier.SeasonStartingSoon(ctx, lg, members); err != nil {
		return false, err
	}
	return true, nil
}

// ActivateSeason flips an upcoming league to active on its start date. The
// status change is claimed first; notifications only go out to the run that
// won the claim.
func (s *SeasonService) ActivateSeason(ctx context.Context, lg league.League, dateKey string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.ActivateSeason")
	defer span.End()

	if lg.Status != league.StatusUpcoming {
		return false, nil
	}

	activated, err := s.leagueRepo.Activate(ctx, lg.ID, dateKey)
	if err != nil {
		return false, fmt.Errorf("activate league: %w", err)
	}
	if !activated {
		return false, nil
	}

	members, err := s.memberRepo.ListActive(ctx, lg.ID)
	if err != nil {
		return false, fmt.Errorf("list members: %w", err)
	}
	if err := s.notifier.SeasonStarted(ctx, lg, members); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "season activated", "league_id", lg.ID, "date_key", dateKey)
	return true, nil
}

// SendScoreReminders nudges every member who has not yet submitted for the
// current week. The window straddles a fixed offset after the tee time;
// the reminder key (date + week) keeps the fan-out to once per play day.
func (s *SeasonService) SendScoreReminders(ctx context.Context, lg league.League, now time.Time) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.SendScoreReminders")
	defer span.End()

	if lg.Status != league.StatusActive {
		return false, nil
	}

	reminderKey := fmt.Sprintf("%s#%d", dateKey(now), lg.CurrentWeek)
	if lg.LastReminderKey == reminderKey {
		return false, nil
	}

	hour, minute, err := lg.TeeTimeOfDay()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMissingConfiguration, err)
	}

	offset := reminderOffset18
	if lg.HolesPerRound == 9 {
		offset = reminderOffset9
	}
	due := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()).Add(offset)
	if now.Before(due.Add(-reminderWindow)) || now.Sub(due) > reminderWindow {
		return false, nil
	}

	// Claimed before the fan-out so a racing tick cannot double-send, and
	// even when everyone has already submitted, so later ticks in the
	// window skip the membership scan.
	marked, err := s.leagueRepo.MarkReminderSent(ctx, lg.ID, reminderKey)
	if err != nil {
		return false, fmt.Errorf("mark reminder sent: %w", err)
	}
	if !marked {
		return false, nil
	}

	members, err := s.memberRepo.ListActive(ctx, lg.ID)
	if err != nil {
		return false, fmt.Errorf("list members: %w", err)
	}

	submitted, err := s.scoreRepo.ListSubmittedByWeek(ctx, lg.ID, lg.CurrentWeek)
	if err != nil {
		return false, fmt.Errorf("list submitted scores: %w", err)
	}
	hasScore := make(map[string]bool, len(submitted))
	for _, sc := range submitted {
		hasScore[sc.UserID] = true
	}

	pending := make([]member.Member, 0, len(members))
	for _, m := range members {
		if !hasScore[m.UserID] {
			pending = append(pending, m)
		}
	}

	if err := s.notifier.ScoreReminder(ctx, lg, lg.CurrentWeek, pending); err != nil {
		return false, err
	}

	if len(pending) > 0 {
		s.logger.InfoContext(ctx, "score reminders sent",
			"league_id", lg.ID, "week", lg.CurrentWeek, "count", len(pending))
	}
	return true, nil
}

// CompletePlayedWeek resolves the league's current week: the format
// strategy ranks and scores it, the result snapshot is persisted, members
// are notified, and the league either advances to the next week or, after
// the final week, completes with a champion. The member and team week
// ledgers make the standings writes replay-safe, so a run that failed
// partway can be retried without double-counting.
func (s *SeasonService) CompletePlayedWeek(ctx context.Context, lg league.League) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.CompletePlayedWeek")
	defer span.End()

	week := lg.CurrentWeek
	if lg.Status != league.StatusActive || week < 1 || lg.LastProcessedWeek >= week {
		return false, nil
	}

	strategy, ok := s.strategies[lg.Format]
	if !ok {
		return false, fmt.Errorf("%w: no strategy for format %q", ErrMissingConfiguration, lg.Format)
	}

	result, err := strategy.CompleteWeek(ctx, lg, week)
	if err != nil {
		return false, err
	}

	if err := s.weekResultRepo.Create(ctx, result); err != nil {
		return false, fmt.Errorf("create week result: %w", err)
	}

	members, err := s.memberRepo.ListActive(ctx, lg.ID)
	if err != nil {
		return false, fmt.Errorf("list members: %w", err)
	}
	if err := s.notifier.WeeklyResult(ctx, lg, result, members); err != nil {
		return false, err
	}

	if week < lg.TotalWeeks {
		advanced, err := s.leagueRepo.AdvanceWeek(ctx, lg.ID, week)
		if err != nil {
			return false, fmt.Errorf("advance week: %w", err)
		}
		if !advanced {
			return false, nil
		}
		if err := s.notifier.NewWeek(ctx, lg, week+1, members); err != nil {
			return false, err
		}
		s.logger.InfoContext(ctx, "week completed", "league_id", lg.ID, "week", week, "next_week", week+1)
		return true, nil
	}

	champion, err := s.determineChampion(ctx, lg, members)
	if err != nil {
		return false, err
	}
	completed, err := s.leagueRepo.CompleteSeason(ctx, lg.ID, week, champion)
	if err != nil {
		return false, fmt.Errorf("complete season: %w", err)
	}
	if !completed {
		return false, nil
	}
	if err := s.notifier.SeasonComplete(ctx, lg, champion, members); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "season completed",
		"league_id", lg.ID, "weeks", week, "champion", champion.Name)
	return true, nil
}

// determineChampion picks the season winner after the final week's
// standings have been applied: the top team by match points in team
// leagues, the top member by cumulative points otherwise.
func (s *SeasonService) determineChampion(ctx context.Context, lg league.League, members []member.Member) (league.Champion, error) {
	prize := lg.SeasonPrizeCents()
	currency := lg.PurseCurrency()

	if lg.Format == league.FormatTeamMatch {
		teams, err := s.teamRepo.ListByLeague(ctx, lg.ID)
		if err != nil {
			return league.Champion{}, fmt.Errorf("list teams for champion: %w", err)
		}
		if len(teams) == 0 {
			return league.Champion{}, fmt.Errorf("%w: team league %s has no teams", ErrMissingConfiguration, lg.ID)
		}
		sort.SliceStable(teams, func(i, j int) bool {
			if teams[i].Points != teams[j].Points {
				return teams[i].Points > teams[j].Points
			}
			if teams[i].Wins != teams[j].Wins {
				return teams[i].Wins > teams[j].Wins
			}
			return teams[i].Name < teams[j].Name
		})
		top := teams[0]
		return league.Champion{
			ID:         top.ID,
			Name:       top.Name,
			IsTeam:     true,
			PrizeCents: prize,
			Currency:   currency,
		}, nil
	}

	// Members arrive with this week's stats already applied.
	fresh, err := s.memberRepo.ListActive(ctx, lg.ID)
	if err != nil {
		return league.Champion{}, fmt.Errorf("list members for champion: %w", err)
	}
	if len(fresh) == 0 {
		fresh = members
	}
	if len(fresh) == 0 {
		return league.Champion{}, fmt.Errorf("%w: league %s has no members", ErrMissingConfiguration, lg.ID)
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].TotalPoints != fresh[j].TotalPoints {
			return fresh[i].TotalPoints > fresh[j].TotalPoints
		}
		if fresh[i].Wins != fresh[j].Wins {
			return fresh[i].Wins > fresh[j].Wins
		}
		if fresh[i].NetSum != fresh[j].NetSum {
			return fresh[i].NetSum < fresh[j].NetSum
		}
		return fresh[i].UserID < fresh[j].UserID
	})
	top := fresh[0]
	return league.Champion{
		ID:         top.UserID,
		Name:       top.DisplayName,
		PrizeCents: prize,
		Currency:   currency,
	}, nil
}

// dateKey renders a time as the calendar-day key the idempotency markers
// use.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
