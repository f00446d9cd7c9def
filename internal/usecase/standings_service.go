package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

// RankedScore is one row of a week's results, already sorted ascending by
// net score (lower is better).
type RankedScore struct {
	UserID      string
	DisplayName string
	Net         int
	Gross       int
}

// StandingsService applies a resolved week to cumulative member standings
// and recomputes league-wide positions. The caller guarantees at most one
// invocation per (league, week): the league's processed-week marker is the
// guard.
type StandingsService struct {
	memberRepo member.Repository
	logger     *logging.Logger
}

func NewStandingsService(memberRepo member.Repository, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		memberRepo: memberRepo,
		logger:     logger,
	}
}

// PointsForRank is the base standings award for finishing rank (0-based)
// out of total scored players: max(total − rank, 1), scaled by the week's
// multiplier and rounded.
func PointsForRank(rank, total int, multiplier float64) int {
	base := total - rank
	if base < 1 {
		base = 1
	}
	return league.ScalePoints(base, multiplier)
}

// ApplyWeek increments every scored member's cumulative counters, records
// the per-week snapshot, and then rewrites league-wide positions from the
// updated totals. It returns the week's placement rows for the WeekResult
// snapshot.
func (s *StandingsService) ApplyWeek(ctx context.Context, leagueID string, week int, ranked []RankedScore, multiplier float64) ([]weekresult.Placement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ApplyWeek")
	defer span.End()

	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: empty ranked list for league=%s week=%d", ErrInvalidInput, leagueID, week)
	}

	placements := make([]weekresult.Placement, 0, len(ranked))
	for i, row := range ranked {
		points := PointsForRank(i, len(ranked), multiplier)
		stats := member.WeekStats{
			Week:      week,
			Placement: i + 1,
			Points:    points,
			Net:       row.Net,
			Gross:     row.Gross,
			Won:       i == 0,
		}
		if err := s.memberRepo.ApplyWeekStats(ctx, leagueID, row.UserID, stats); err != nil {
			return nil, fmt.Errorf("apply week stats user=%s week=%d: %w", row.UserID, week, err)
		}
		placements = append(placements, weekresult.Placement{
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Placement:   i + 1,
			Points:      points,
			Net:         row.Net,
			Gross:       row.Gross,
		})
	}

	if err := s.recomputePositions(ctx, leagueID); err != nil {
		return nil, err
	}

	return placements, nil
}

// recomputePositions orders members by cumulative points and assigns shared
// positions to ties: equal totals share a position and the counter stays
// positional, so [50, 50, 40] ranks as [1, 1, 3].
func (s *StandingsService) recomputePositions(ctx context.Context, leagueID string) error {
	members, err := s.memberRepo.ListActive(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list members for positions: %w", err)
	}
	if len(members) == 0 {
		return nil
	}

	sort.SliceStable(members, func(i, j int) bool {
		if members[i].TotalPoints != members[j].TotalPoints {
			return members[i].TotalPoints > members[j].TotalPoints
		}
		if members[i].Wins != members[j].Wins {
			return members[i].Wins > members[j].Wins
		}
		return members[i].UserID < members[j].UserID
	})

	updates := make([]member.PositionUpdate, 0, len(members))
	position := 0
	lastPoints := 0
	for idx, m := range members {
		if idx == 0 || m.TotalPoints != lastPoints {
			position = idx + 1
			lastPoints = m.TotalPoints
		}
		updates = append(updates, member.PositionUpdate{
			UserID:           m.UserID,
			Position:         position,
			PreviousPosition: m.CurrentPosition,
		})
	}

	if err := s.memberRepo.UpdatePositions(ctx, leagueID, updates); err != nil {
		return fmt.Errorf("update positions: %w", err)
	}

	return nil
}
