package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
	"github.com/fairwayclub/league-engine/internal/platform/resilience"
)

const tickFlightKey = "processor:tick"

// RunResult summarizes one processor tick.
type RunResult struct {
	Mode            string `json:"mode"`
	LeagueCount     int    `json:"leagueCount"`
	StartingNotices int    `json:"startingNotices"`
	Activations     int    `json:"activations"`
	RemindersSent   int    `json:"remindersSent"`
	WeeksCompleted  int    `json:"weeksCompleted"`
	Skipped         int    `json:"skipped"`
	Failed          int    `json:"failed"`
	DurationMs      int64  `json:"durationMs"`
	Shared          bool   `json:"shared"`
}

// ProcessorService is the recurring batch entry point. One tick scans four
// phases (eve-of-season notices, activations, play-day reminders, and
// day-after week completion) and fans each phase's leagues out over a
// bounded worker pool. A tick is safe to replay: every per-league effect
// sits behind a compare-and-set marker, and concurrent in-process ticks
// collapse onto one run.
type ProcessorService struct {
	leagueRepo league.Repository
	season     *SeasonService
	pool       *ants.Pool
	flight     *resilience.Group
	location   *time.Location
	logger     *logging.Logger
	now        func() time.Time
}

func NewProcessorService(
	leagueRepo league.Repository,
	season *SeasonService,
	maxWorkers int,
	location *time.Location,
	logger *logging.Logger,
) (*ProcessorService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}
	if maxWorkers < 1 {
		maxWorkers = 4
	}

	pool, err := ants.NewPool(maxWorkers, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &ProcessorService{
		leagueRepo: leagueRepo,
		season:     season,
		pool:       pool,
		flight:     &resilience.Group{},
		location:   location,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Close releases the worker pool. Pending tasks finish first.
func (s *ProcessorService) Close() {
	s.pool.Release()
}

// Run executes one tick. Concurrent callers within the process share a
// single execution and receive the same result.
func (s *ProcessorService) Run(ctx context.Context, mode string) (RunResult, error) {
	value, err, shared := s.flight.Do(tickFlightKey, func() (any, error) {
		return s.run(ctx, mode)
	})
	if err != nil {
		return RunResult{}, err
	}
	result := value.(RunResult)
	result.Shared = shared
	return result, nil
}

func (s *ProcessorService) run(ctx context.Context, mode string) (RunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProcessorService.Run")
	defer span.End()

	started := s.now()
	now := started.In(s.location)
	today := now
	tomorrow := now.AddDate(0, 0, 1)
	yesterday := now.AddDate(0, 0, -1)

	result := RunResult{Mode: mode}

	s.logger.InfoContext(ctx, "processor tick started", "mode", mode, "date_key", dateKey(today))

	// Eve-of-season notices for leagues starting tomorrow.
	if leagues, err := s.leagueRepo.ListUpcomingStartingOn(ctx, tomorrow); err != nil {
		s.logger.ErrorContext(ctx, "list upcoming for notices failed", "error", err)
		result.Failed++
	} else {
		counts := s.runPhase(ctx, "notice", leagues, func(ctx context.Context, lg league.League) (bool, error) {
			return s.season.NotifyUpcomingStart(ctx, lg, dateKey(today))
		})
		result.LeagueCount += len(leagues)
		result.StartingNotices += counts.did
		result.Skipped += counts.skipped
		result.Failed += counts.failed
	}

	// Activations for leagues starting today.
	if leagues, err := s.leagueRepo.ListUpcomingStartingOn(ctx, today); err != nil {
		s.logger.ErrorContext(ctx, "list upcoming for activation failed", "error", err)
		result.Failed++
	} else {
		counts := s.runPhase(ctx, "activate", leagues, func(ctx context.Context, lg league.League) (bool, error) {
			return s.season.ActivateSeason(ctx, lg, dateKey(today))
		})
		result.LeagueCount += len(leagues)
		result.Activations += counts.did
		result.Skipped += counts.skipped
		result.Failed += counts.failed
	}

	// Score reminders on today's play day.
	if leagues, err := s.leagueRepo.ListActiveByPlayDay(ctx, today.Weekday()); err != nil {
		s.logger.ErrorContext(ctx, "list active for reminders failed", "error", err)
		result.Failed++
	} else {
		counts := s.runPhase(ctx, "remind", leagues, func(ctx context.Context, lg league.League) (bool, error) {
			return s.season.SendScoreReminders(ctx, lg, now)
		})
		result.LeagueCount += len(leagues)
		result.RemindersSent += counts.did
		result.Skipped += counts.skipped
		result.Failed += counts.failed
	}

	// Week completion the day after play day, once scores are in.
	if leagues, err := s.leagueRepo.ListActiveByPlayDay(ctx, yesterday.Weekday()); err != nil {
		s.logger.ErrorContext(ctx, "list active for completion failed", "error", err)
		result.Failed++
	} else {
		counts := s.runPhase(ctx, "score", leagues, func(ctx context.Context, lg league.League) (bool, error) {
			return s.season.CompletePlayedWeek(ctx, lg)
		})
		result.LeagueCount += len(leagues)
		result.WeeksCompleted += counts.did
		result.Skipped += counts.skipped
		result.Failed += counts.failed
	}

	result.DurationMs = time.Since(started).Milliseconds()
	s.logger.InfoContext(ctx, "processor tick finished",
		"mode", mode,
		"leagues", result.LeagueCount,
		"notices", result.StartingNotices,
		"activations", result.Activations,
		"reminders", result.RemindersSent,
		"weeks_completed", result.WeeksCompleted,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

type phaseCounts struct {
	did     int
	skipped int
	failed  int
}

// runPhase fans one phase's leagues out over the worker pool. Expected
// conditions (no scores yet, broken configuration, documents that fail
// validation) count as skips; anything else is a failure. A panicking
// league never takes down the tick.
func (s *ProcessorService) runPhase(ctx context.Context, phase string, leagues []league.League, apply func(context.Context, league.League) (bool, error)) phaseCounts {
	if len(leagues) == 0 {
		return phaseCounts{}
	}

	var did, skipped, failed atomic.Int64
	var wg sync.WaitGroup

	for _, lg := range leagues {
		lg := lg
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failed.Add(1)
					s.logger.ErrorContext(ctx, "league processing panicked",
						"phase", phase, "league_id", lg.ID, "panic", fmt.Sprint(r))
				}
			}()

			lg.Normalize()
			if err := lg.Validate(); err != nil {
				skipped.Add(1)
				s.logger.WarnContext(ctx, "skipping invalid league",
					"phase", phase, "league_id", lg.ID, "error", err)
				return
			}

			done, err := apply(ctx, lg)
			switch {
			case isExpectedSkip(err):
				skipped.Add(1)
				s.logger.WarnContext(ctx, "league skipped",
					"phase", phase, "league_id", lg.ID, "reason", err)
			case err != nil:
				failed.Add(1)
				s.logger.ErrorContext(ctx, "league processing failed",
					"phase", phase, "league_id", lg.ID, "error", err)
			case done:
				did.Add(1)
			}
		}

		wg.Add(1)
		if err := s.pool.Submit(task); err != nil {
			// Pool is released or saturated beyond recovery; run inline so
			// the tick still covers every league.
			task()
		}
	}
	wg.Wait()

	return phaseCounts{
		did:     int(did.Load()),
		skipped: int(skipped.Load()),
		failed:  int(failed.Load()),
	}
}

func isExpectedSkip(err error) bool {
	return errors.Is(err, ErrNoScores) || errors.Is(err, ErrMissingConfiguration)
}
