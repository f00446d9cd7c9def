package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/course"
	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/domain/score"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

// StrokePlayStrategy resolves a week of individual stroke play: lowest net
// wins, standings points by finishing order, weekly purse to the winner.
type StrokePlayStrategy struct {
	scoreRepo  score.Repository
	memberRepo member.Repository
	standings  *StandingsService
	resolver   netResolver
	logger     *logging.Logger
	now        func() time.Time
}

func NewStrokePlayStrategy(
	scoreRepo score.Repository,
	memberRepo member.Repository,
	standings *StandingsService,
	courses course.Provider,
	logger *logging.Logger,
) *StrokePlayStrategy {
	if logger == nil {
		logger = logging.Default()
	}
	return &StrokePlayStrategy{
		scoreRepo:  scoreRepo,
		memberRepo: memberRepo,
		standings:  standings,
		resolver:   netResolver{courses: courses},
		logger:     logger,
		now:        time.Now,
	}
}

func (s *StrokePlayStrategy) CompleteWeek(ctx context.Context, lg league.League, week int) (weekresult.WeekResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StrokePlayStrategy.CompleteWeek")
	defer span.End()

	scores, err := s.scoreRepo.ListApprovedByWeek(ctx, lg.ID, week)
	if err != nil {
		return weekresult.WeekResult{}, fmt.Errorf("list approved scores: %w", err)
	}
	if len(scores) == 0 {
		return weekresult.WeekResult{}, fmt.Errorf("%w: league=%s week=%d", ErrNoScores, lg.ID, week)
	}

	rounds, err := resolveRounds(ctx, s.resolver, s.logger, lg, scores)
	if err != nil {
		return weekresult.WeekResult{}, err
	}
	if len(rounds) == 0 {
		return weekresult.WeekResult{}, fmt.Errorf("%w: league=%s week=%d resolved to nothing", ErrNoScores, lg.ID, week)
	}

	members, err := s.memberRepo.ListActive(ctx, lg.ID)
	if err != nil {
		return weekresult.WeekResult{}, fmt.Errorf("list members: %w", err)
	}

	ranked := rankRounds(rounds, displayNames(members))
	placements, err := s.standings.ApplyWeek(ctx, lg.ID, week, ranked, lg.WeekMultiplier(week))
	if err != nil {
		return weekresult.WeekResult{}, err
	}

	winner := ranked[0]
	return weekresult.WeekResult{
		LeagueID:     lg.ID,
		Week:         week,
		Elevated:     lg.IsElevatedWeek(week),
		PrizeCents:   lg.WeeklyPrizeCents(week),
		Currency:     lg.PurseCurrency(),
		WinnerUserID: winner.UserID,
		WinnerName:   winner.DisplayName,
		WinnerNet:    winner.Net,
		Standings:    placements,
		CreatedAt:    s.now(),
	}, nil
}
