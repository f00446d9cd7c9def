package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/domain/notification"
	"github.com/fairwayclub/league-engine/internal/domain/score"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/infrastructure/repository/memory"
	"github.com/fairwayclub/league-engine/internal/platform/id"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

type seasonFixture struct {
	leagues *memory.LeagueRepository
	members *memory.MemberRepository
	teams   *memory.TeamRepository
	scores  *memory.ScoreRepository
	results *memory.WeekResultRepository
	notes   *memory.NotificationRepository
	season  *SeasonService
}

func newSeasonFixture() *seasonFixture {
	f := &seasonFixture{
		leagues: memory.NewLeagueRepository(),
		members: memory.NewMemberRepository(),
		teams:   memory.NewTeamRepository(),
		scores:  memory.NewScoreRepository(),
		results: memory.NewWeekResultRepository(),
		notes:   memory.NewNotificationRepository(),
	}
	f.season = f.buildSeason(f.results)
	return f
}

// buildSeason wires a season service over the fixture's repositories, with
// the week-result store injectable so tests can make it fail.
func (f *seasonFixture) buildSeason(results weekresult.Repository) *SeasonService {
	logger := logging.NewNop()
	standings := NewStandingsService(f.members, logger)
	notifier := NewNotifierService(f.notes, id.NewRandomGenerator(), logger)
	strategies := map[league.Format]WeekStrategy{
		league.FormatStroke:    NewStrokePlayStrategy(f.scores, f.members, standings, stubCourses{}, logger),
		league.FormatTeamMatch: NewTeamMatchStrategy(f.scores, f.members, f.teams, standings, stubCourses{}, logger),
	}
	return NewSeasonService(f.leagues, f.members, f.teams, f.scores, results, strategies, notifier, logger)
}

// flakyWeekResults fails the first Create calls, then behaves normally.
type flakyWeekResults struct {
	*memory.WeekResultRepository
	failures int
}

func (r *flakyWeekResults) Create(ctx context.Context, result weekresult.WeekResult) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("result store offline")
	}
	return r.WeekResultRepository.Create(ctx, result)
}

func (f *seasonFixture) seedPair() {
	f.members.Seed(
		member.Member{UserID: "u1", LeagueID: "lg", DisplayName: "Ada", Status: member.StatusActive},
		member.Member{UserID: "u2", LeagueID: "lg", DisplayName: "Ben", Status: member.StatusActive},
	)
}

func (f *seasonFixture) mustLeague(t *testing.T) league.League {
	t.Helper()
	lg, ok, err := f.leagues.GetByID(context.Background(), "lg")
	if err != nil || !ok {
		t.Fatalf("league fixture missing: ok=%v err=%v", ok, err)
	}
	return lg
}

func TestNotifyUpcomingStartOncePerDay(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	f.seedPair()
	lg := strokeLeague()
	lg.Status = league.StatusUpcoming
	lg.CurrentWeek = 0
	lg.StartDate = time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	f.leagues.Seed(lg)

	ctx := context.Background()
	did, err := f.season.NotifyUpcomingStart(ctx, f.mustLeague(t), "2026-05-11")
	if err != nil || !did {
		t.Fatalf("first notice: did=%v err=%v", did, err)
	}
	if got := len(f.notes.ByType(notification.TypeSeasonStartingSoon)); got != 2 {
		t.Fatalf("expected 2 starting notices, got %d", got)
	}

	did, err = f.season.NotifyUpcomingStart(ctx, f.mustLeague(t), "2026-05-11")
	if err != nil || did {
		t.Fatalf("repeat notice should be a no-op: did=%v err=%v", did, err)
	}
	if got := len(f.notes.ByType(notification.TypeSeasonStartingSoon)); got != 2 {
		t.Fatalf("repeat notice duplicated fan-out: %d", got)
	}
}

func TestNotifyUpcomingStartLostClaimSendsNothing(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	f.seedPair()
	lg := strokeLeague()
	lg.Status = league.StatusUpcoming
	lg.CurrentWeek = 0
	f.leagues.Seed(lg)
	ctx := context.Background()

	// Another run already claimed today's marker; this run holds a stale
	// league snapshot that does not know about it.
	stale := f.mustLeague(t)
	if marked, err := f.leagues.MarkStartingNotice(ctx, "lg", "2026-05-11"); err != nil || !marked {
		t.Fatalf("seed notice marker: marked=%v err=%v", marked, err)
	}

	did, err := f.season.NotifyUpcomingStart(ctx, stale, "2026-05-11")
	if err != nil || did {
		t.Fatalf("lost claim should be a no-op: did=%v err=%v", did, err)
	}
	if got := len(f.notes.ByType(notification.TypeSeasonStartingSoon)); got != 0 {
		t.Fatalf("losing run fanned out anyway: %d", got)
	}
}

func TestActivateSeason(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	f.seedPair()
	lg := strokeLeague()
	lg.Status = league.StatusUpcoming
	lg.CurrentWeek = 0
	f.leagues.Seed(lg)

	ctx := context.Background()
	did, err := f.season.ActivateSeason(ctx, f.mustLeague(t), "2026-05-12")
	if err != nil || !did {
		t.Fatalf("activate: did=%v err=%v", did, err)
	}

	got := f.mustLeague(t)
	if got.Status != league.StatusActive || got.CurrentWeek != 1 || got.LastActivatedOn != "2026-05-12" {
		t.Fatalf("league not activated: %+v", got)
	}
	if len(f.notes.ByType(notification.TypeSeasonStarted)) != 2 {
		t.Fatal("season started fan-out missing")
	}

	did, err = f.season.ActivateSeason(ctx, got, "2026-05-12")
	if err != nil || did {
		t.Fatalf("second activation should lose the claim: did=%v err=%v", did, err)
	}
}

func TestSendScoreReminders(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	f.members.Seed(
		member.Member{UserID: "u1", LeagueID: "lg", DisplayName: "Ada", Status: member.StatusActive},
		member.Member{UserID: "u2", LeagueID: "lg", DisplayName: "Ben", Status: member.StatusActive},
		member.Member{UserID: "u3", LeagueID: "lg", DisplayName: "Cal", Status: member.StatusActive},
	)
	// A pending submission still counts as submitted.
	f.scores.Seed(score.Score{LeagueID: "lg", UserID: "u2", Week: 1, Gross: 90, Status: score.StatusPending})

	lg := strokeLeague()
	f.leagues.Seed(lg)
	ctx := context.Background()

	// More than an hour ahead of the due time (tee 09:00 + 6h = 15:00)
	// nothing happens.
	early := time.Date(2026, 5, 14, 13, 30, 0, 0, time.UTC)
	did, err := f.season.SendScoreReminders(ctx, f.mustLeague(t), early)
	if err != nil || did {
		t.Fatalf("reminder before window: did=%v err=%v", did, err)
	}

	inWindow := time.Date(2026, 5, 14, 15, 30, 0, 0, time.UTC)
	did, err = f.season.SendScoreReminders(ctx, f.mustLeague(t), inWindow)
	if err != nil || !did {
		t.Fatalf("reminder in window: did=%v err=%v", did, err)
	}

	reminders := f.notes.ByType(notification.TypeScoreReminder)
	if len(reminders) != 2 {
		t.Fatalf("expected reminders for the 2 unsubmitted members, got %d", len(reminders))
	}
	for _, n := range reminders {
		if n.UserID == "u2" {
			t.Fatal("submitted member received a reminder")
		}
	}

	did, err = f.season.SendScoreReminders(ctx, f.mustLeague(t), inWindow.Add(10*time.Minute))
	if err != nil || did {
		t.Fatalf("repeat reminder should be suppressed: did=%v err=%v", did, err)
	}
	if got := len(f.notes.ByType(notification.TypeScoreReminder)); got != 2 {
		t.Fatalf("repeat reminder duplicated fan-out: %d", got)
	}
}

func TestSendScoreRemindersAcceptsEarlyTick(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	f.seedPair()
	f.leagues.Seed(strokeLeague())

	// A tick up to an hour ahead of the due time (tee 09:00 + 6h = 15:00)
	// still counts as the play-day run.
	at := time.Date(2026, 5, 14, 14, 15, 0, 0, time.UTC)
	did, err := f.season.SendScoreReminders(context.Background(), f.mustLeague(t), at)
	if err != nil || !did {
		t.Fatalf("early-side reminder: did=%v err=%v", did, err)
	}
	if got := len(f.notes.ByType(notification.TypeScoreReminder)); got != 2 {
		t.Fatalf("expected reminders for both members, got %d", got)
	}
}

func TestSendScoreRemindersLostClaimSendsNothing(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	f.seedPair()
	f.leagues.Seed(strokeLeague())
	ctx := context.Background()

	// Another run already claimed today's key; this run holds a stale
	// league snapshot that does not know about it.
	stale := f.mustLeague(t)
	if marked, err := f.leagues.MarkReminderSent(ctx, "lg", "2026-05-14#1"); err != nil || !marked {
		t.Fatalf("seed reminder marker: marked=%v err=%v", marked, err)
	}

	inWindow := time.Date(2026, 5, 14, 15, 30, 0, 0, time.UTC)
	did, err := f.season.SendScoreReminders(ctx, stale, inWindow)
	if err != nil || did {
		t.Fatalf("lost claim should be a no-op: did=%v err=%v", did, err)
	}
	if got := len(f.notes.ByType(notification.TypeScoreReminder)); got != 0 {
		t.Fatalf("losing run fanned out anyway: %d", got)
	}
}

func TestSendScoreRemindersNineHoleOffset(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	f.seedPair()
	lg := strokeLeague()
	lg.HolesPerRound = 9
	f.leagues.Seed(lg)

	// 09:00 tee + 4h for nine holes puts the window at 13:00.
	at := time.Date(2026, 5, 14, 13, 15, 0, 0, time.UTC)
	did, err := f.season.SendScoreReminders(context.Background(), f.mustLeague(t), at)
	if err != nil || !did {
		t.Fatalf("nine-hole reminder: did=%v err=%v", did, err)
	}
}

func TestCompletePlayedWeekAdvancesAndNotifies(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	f.seedPair()
	f.scores.Seed(
		score.Score{LeagueID: "lg", UserID: "u1", Week: 1, Gross: 85, Net: intPtr(71), Status: score.StatusApproved},
		score.Score{LeagueID: "lg", UserID: "u2", Week: 1, Gross: 82, Net: intPtr(69), Status: score.StatusApproved},
	)
	f.leagues.Seed(strokeLeague())

	ctx := context.Background()
	did, err := f.season.CompletePlayedWeek(ctx, f.mustLeague(t))
	if err != nil || !did {
		t.Fatalf("complete week: did=%v err=%v", did, err)
	}

	got := f.mustLeague(t)
	if got.CurrentWeek != 2 || got.LastProcessedWeek != 1 || got.Status != league.StatusActive {
		t.Fatalf("league not advanced: %+v", got)
	}
	if f.results.Count() != 1 {
		t.Fatalf("expected one week result, got %d", f.results.Count())
	}
	if len(f.notes.ByType(notification.TypeWeeklyResult)) != 2 || len(f.notes.ByType(notification.TypeNewWeek)) != 2 {
		t.Fatal("weekly result or new week fan-out missing")
	}

	// The next tick sees week 2 with no scores yet and leaves it alone.
	_, err = f.season.CompletePlayedWeek(ctx, f.mustLeague(t))
	if !errors.Is(err, ErrNoScores) {
		t.Fatalf("expected ErrNoScores for the unplayed week, got %v", err)
	}
	if f.results.Count() != 1 {
		t.Fatalf("unplayed week produced a result: %d", f.results.Count())
	}
}

func TestCompletePlayedWeekRetryDoesNotDoubleCount(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	flaky := &flakyWeekResults{WeekResultRepository: f.results, failures: 1}
	f.season = f.buildSeason(flaky)

	f.seedPair()
	f.scores.Seed(
		score.Score{LeagueID: "lg", UserID: "u1", Week: 1, Gross: 85, Net: intPtr(71), Status: score.StatusApproved},
		score.Score{LeagueID: "lg", UserID: "u2", Week: 1, Gross: 82, Net: intPtr(69), Status: score.StatusApproved},
	)
	f.leagues.Seed(strokeLeague())
	ctx := context.Background()

	// The first run applies member stats, then dies writing the result
	// snapshot, leaving the week marker untouched.
	if _, err := f.season.CompletePlayedWeek(ctx, f.mustLeague(t)); err == nil {
		t.Fatal("expected the result store failure to surface")
	}
	if got := f.mustLeague(t); got.LastProcessedWeek != 0 || got.CurrentWeek != 1 {
		t.Fatalf("failed run should not advance the league: %+v", got)
	}

	// The retry reruns the whole week; the per-week ledgers must absorb
	// the repeated stat application.
	did, err := f.season.CompletePlayedWeek(ctx, f.mustLeague(t))
	if err != nil || !did {
		t.Fatalf("retry: did=%v err=%v", did, err)
	}
	if got := f.mustLeague(t); got.CurrentWeek != 2 || got.LastProcessedWeek != 1 {
		t.Fatalf("retry did not advance the league: %+v", got)
	}
	if f.results.Count() != 1 {
		t.Fatalf("expected one week result, got %d", f.results.Count())
	}

	for _, userID := range []string{"u1", "u2"} {
		m, ok := f.members.Get("lg", userID)
		if !ok {
			t.Fatalf("member %s missing", userID)
		}
		if m.RoundsPlayed != 1 {
			t.Fatalf("%s rounds played doubled: %+v", userID, m)
		}
		if m.TotalPoints != m.WeekResults[1].Points || m.NetSum != m.WeekResults[1].Net {
			t.Fatalf("%s totals diverged from the week snapshot: %+v", userID, m)
		}
	}
}

func TestFinalWeekCompletesSeason(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture()
	f.seedPair()
	f.scores.Seed(
		score.Score{LeagueID: "lg", UserID: "u1", Week: 1, Gross: 85, Net: intPtr(71), Status: score.StatusApproved},
		score.Score{LeagueID: "lg", UserID: "u2", Week: 1, Gross: 82, Net: intPtr(69), Status: score.StatusApproved},
	)
	lg := strokeLeague()
	lg.TotalWeeks = 1
	f.leagues.Seed(lg)

	ctx := context.Background()
	did, err := f.season.CompletePlayedWeek(ctx, f.mustLeague(t))
	if err != nil || !did {
		t.Fatalf("complete final week: did=%v err=%v", did, err)
	}

	got := f.mustLeague(t)
	if got.Status != league.StatusCompleted || got.LastProcessedWeek != 1 {
		t.Fatalf("season not completed: %+v", got)
	}
	if got.Champion == nil || got.Champion.ID != "u2" || got.Champion.IsTeam {
		t.Fatalf("unexpected champion: %+v", got.Champion)
	}
	if got.Champion.PrizeCents != 5000 || got.Champion.Currency != "USD" {
		t.Fatalf("champion prize wrong: %+v", got.Champion)
	}
	if len(f.notes.ByType(notification.TypeSeasonComplete)) != 2 {
		t.Fatal("season complete fan-out missing")
	}

	// A replay of the same stale league loses the completion claim.
	did, err = f.season.CompletePlayedWeek(ctx, got)
	if err != nil || did {
		t.Fatalf("completed league should be inert: did=%v err=%v", did, err)
	}
}
