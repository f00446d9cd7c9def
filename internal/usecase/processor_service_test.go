package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/domain/notification"
	"github.com/fairwayclub/league-engine/internal/domain/score"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

func newProcessorFixture(t *testing.T, now time.Time) (*seasonFixture, *ProcessorService) {
	t.Helper()

	f := newSeasonFixture()
	processor, err := NewProcessorService(f.leagues, f.season, 4, time.UTC, logging.NewNop())
	if err != nil {
		t.Fatalf("NewProcessorService: %v", err)
	}
	t.Cleanup(processor.Close)
	processor.now = func() time.Time { return now }
	return f, processor
}

func TestProcessorTickIsIdempotent(t *testing.T) {
	t.Parallel()

	// A Tuesday; completion looks back at Monday's play day.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f, processor := newProcessorFixture(t, now)

	startsTomorrow := strokeLeague()
	startsTomorrow.ID = "starts-tomorrow"
	startsTomorrow.Status = league.StatusUpcoming
	startsTomorrow.CurrentWeek = 0
	startsTomorrow.StartDate = now.AddDate(0, 0, 1)

	startsToday := strokeLeague()
	startsToday.ID = "starts-today"
	startsToday.Status = league.StatusUpcoming
	startsToday.CurrentWeek = 0
	startsToday.StartDate = now

	playedYesterday := strokeLeague()
	playedYesterday.ID = "played-monday"
	playedYesterday.PlayDay = time.Monday

	f.leagues.Seed(startsTomorrow, startsToday, playedYesterday)
	for _, leagueID := range []string{"starts-tomorrow", "starts-today", "played-monday"} {
		f.members.Seed(
			member.Member{UserID: "u1", LeagueID: leagueID, DisplayName: "Ada", Status: member.StatusActive},
			member.Member{UserID: "u2", LeagueID: leagueID, DisplayName: "Ben", Status: member.StatusActive},
		)
	}
	f.scores.Seed(
		score.Score{LeagueID: "played-monday", UserID: "u1", Week: 1, Gross: 85, Net: intPtr(71), Status: score.StatusApproved},
		score.Score{LeagueID: "played-monday", UserID: "u2", Week: 1, Gross: 82, Net: intPtr(69), Status: score.StatusApproved},
	)

	first, err := processor.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if first.StartingNotices != 1 || first.Activations != 1 || first.WeeksCompleted != 1 || first.Failed != 0 {
		t.Fatalf("unexpected first tick result: %+v", first)
	}

	activated, _, _ := f.leagues.GetByID(context.Background(), "starts-today")
	if activated.Status != league.StatusActive || activated.CurrentWeek != 1 {
		t.Fatalf("starts-today not activated: %+v", activated)
	}
	completed, _, _ := f.leagues.GetByID(context.Background(), "played-monday")
	if completed.CurrentWeek != 2 || completed.LastProcessedWeek != 1 {
		t.Fatalf("played-monday not advanced: %+v", completed)
	}

	second, err := processor.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if second.StartingNotices != 0 || second.Activations != 0 || second.WeeksCompleted != 0 || second.Failed != 0 {
		t.Fatalf("second tick repeated work: %+v", second)
	}
	// Week 2 has no scores yet, which is a skip, never a failure.
	if second.Skipped == 0 {
		t.Fatalf("expected the unplayed week to be skipped: %+v", second)
	}

	if got := len(f.notes.ByType(notification.TypeSeasonStartingSoon)); got != 2 {
		t.Fatalf("starting notices duplicated across ticks: %d", got)
	}
	if got := len(f.notes.ByType(notification.TypeWeeklyResult)); got != 2 {
		t.Fatalf("weekly results duplicated across ticks: %d", got)
	}
	if f.results.Count() != 1 {
		t.Fatalf("expected one week result, got %d", f.results.Count())
	}
}

func TestProcessorSkipsInvalidLeague(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f, processor := newProcessorFixture(t, now)

	broken := strokeLeague()
	broken.ID = "broken"
	broken.PlayDay = time.Monday
	broken.TeeTime = "" // fails validation
	f.leagues.Seed(broken)

	result, err := processor.Run(context.Background(), "test")
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Skipped != 1 || result.Failed != 0 || result.WeeksCompleted != 0 {
		t.Fatalf("invalid league should be skipped: %+v", result)
	}
}
