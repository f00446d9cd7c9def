package usecase

import (
	"context"
	"testing"

	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/infrastructure/repository/memory"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

func TestPointsForRank(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rank, total int
		multiplier  float64
		want        int
	}{
		{0, 4, 1, 4},
		{3, 4, 1, 1},
		{5, 3, 1, 1},  // past the field size, floor of one point
		{0, 3, 2, 6},  // elevated week doubles
		{1, 3, 1.5, 3},
	}
	for _, tc := range cases {
		if got := PointsForRank(tc.rank, tc.total, tc.multiplier); got != tc.want {
			t.Errorf("PointsForRank(%d, %d, %v) = %d, want %d", tc.rank, tc.total, tc.multiplier, got, tc.want)
		}
	}
}

func TestApplyWeekUpdatesMembersAndPositions(t *testing.T) {
	t.Parallel()

	members := memory.NewMemberRepository()
	members.Seed(
		member.Member{UserID: "u1", LeagueID: "lg", DisplayName: "Ada", Status: member.StatusActive},
		member.Member{UserID: "u2", LeagueID: "lg", DisplayName: "Ben", Status: member.StatusActive},
		member.Member{UserID: "u3", LeagueID: "lg", DisplayName: "Cal", Status: member.StatusActive},
	)

	svc := NewStandingsService(members, logging.NewNop())
	ranked := []RankedScore{
		{UserID: "u2", DisplayName: "Ben", Net: 68, Gross: 82},
		{UserID: "u1", DisplayName: "Ada", Net: 70, Gross: 85},
		{UserID: "u3", DisplayName: "Cal", Net: 74, Gross: 90},
	}

	placements, err := svc.ApplyWeek(context.Background(), "lg", 1, ranked, 1)
	if err != nil {
		t.Fatalf("ApplyWeek: %v", err)
	}
	if len(placements) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(placements))
	}
	if placements[0].UserID != "u2" || placements[0].Points != 3 || placements[0].Placement != 1 {
		t.Fatalf("unexpected winner placement: %+v", placements[0])
	}

	winner, _ := members.Get("lg", "u2")
	if winner.TotalPoints != 3 || winner.Wins != 1 || winner.RoundsPlayed != 1 || winner.NetSum != 68 {
		t.Fatalf("winner counters not applied: %+v", winner)
	}
	if snap, ok := winner.WeekResults[1]; !ok || snap.Placement != 1 || snap.Net != 68 {
		t.Fatalf("winner week snapshot missing or wrong: %+v", winner.WeekResults)
	}

	last, _ := members.Get("lg", "u3")
	if last.TotalPoints != 1 || last.Wins != 0 || last.CurrentPosition != 3 {
		t.Fatalf("last place counters wrong: %+v", last)
	}
}

func TestRecomputePositionsSharesTiedRanks(t *testing.T) {
	t.Parallel()

	members := memory.NewMemberRepository()
	members.Seed(
		member.Member{UserID: "u1", LeagueID: "lg", Status: member.StatusActive, TotalPoints: 50, CurrentPosition: 2},
		member.Member{UserID: "u2", LeagueID: "lg", Status: member.StatusActive, TotalPoints: 50, CurrentPosition: 1},
		member.Member{UserID: "u3", LeagueID: "lg", Status: member.StatusActive, TotalPoints: 40, CurrentPosition: 3},
	)

	svc := NewStandingsService(members, logging.NewNop())
	if err := svc.recomputePositions(context.Background(), "lg"); err != nil {
		t.Fatalf("recomputePositions: %v", err)
	}

	for userID, want := range map[string]int{"u1": 1, "u2": 1, "u3": 3} {
		m, _ := members.Get("lg", userID)
		if m.CurrentPosition != want {
			t.Errorf("member %s position = %d, want %d", userID, m.CurrentPosition, want)
		}
	}

	// Previous positions are carried so clients can render movement.
	m, _ := members.Get("lg", "u2")
	if m.PreviousPosition != 1 {
		t.Errorf("previous position = %d, want 1", m.PreviousPosition)
	}
}
