package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fairwayclub/league-engine/internal/domain/course"
	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/domain/score"
	"github.com/fairwayclub/league-engine/internal/domain/scorecard"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

// WeekStrategy resolves one played week under a league format: it ranks the
// approved submissions, applies standings deltas, and returns the week's
// result snapshot. The caller persists the snapshot and advances the league.
type WeekStrategy interface {
	CompleteWeek(ctx context.Context, lg league.League, week int) (weekresult.WeekResult, error)
}

var errIncompleteRound = errors.New("incomplete round")

// resolvedRound is one submission with its net settled, either taken from
// the submitting client or derived from course data.
type resolvedRound struct {
	UserID string
	Net    int
	Gross  int
}

// netResolver settles the net score of a submission. Preference order:
// the client-computed net, then the stored adjusted hole scores, then a
// full derivation from tee data (stroke allocation against the tee's
// stroke indexes).
type netResolver struct {
	courses course.Provider
}

func (r netResolver) resolve(ctx context.Context, lg league.League, sc score.Score) (int, error) {
	if sc.Net != nil {
		return *sc.Net, nil
	}

	if len(sc.AdjustedScores) > 0 {
		line := scorecard.SumLine(sc.AdjustedScores)
		if line.Total != nil {
			return *line.Total, nil
		}
	}

	if len(sc.HoleScores) == 0 {
		return 0, fmt.Errorf("%w: user=%s week=%d has no hole scores", errIncompleteRound, sc.UserID, sc.Week)
	}
	if r.courses == nil {
		return 0, fmt.Errorf("%w: no course provider to derive net for user=%s", ErrMissingConfiguration, sc.UserID)
	}

	courseID := sc.CourseID
	if courseID == "" {
		courseID = lg.CourseID
	}
	teeID := sc.TeeID
	if teeID == "" {
		teeID = lg.TeeID
	}

	tee, found, err := r.courses.GetTee(ctx, courseID, teeID)
	if err != nil {
		return 0, fmt.Errorf("get tee course=%s tee=%s: %w", courseID, teeID, err)
	}
	if !found {
		return 0, fmt.Errorf("%w: tee course=%s tee=%s not found", ErrMissingConfiguration, courseID, teeID)
	}
	if err := tee.Validate(); err != nil {
		return 0, fmt.Errorf("%w: tee %s: %v", ErrMissingConfiguration, teeID, err)
	}

	strokes := scorecard.AllocateStrokes(sc.CourseHandicap, tee.Holes)
	adjusted := scorecard.AdjustedScores(sc.HoleScores, strokes)
	line := scorecard.SumLine(adjusted)
	if line.Total == nil {
		return 0, fmt.Errorf("%w: user=%s week=%d", errIncompleteRound, sc.UserID, sc.Week)
	}
	return *line.Total, nil
}

// resolveRounds settles nets for a week's submissions. Incomplete rounds
// are logged and skipped; a course-data gap aborts the week so the league
// is retried once configuration is fixed.
func resolveRounds(ctx context.Context, resolver netResolver, logger *logging.Logger, lg league.League, scores []score.Score) ([]resolvedRound, error) {
	rounds := make([]resolvedRound, 0, len(scores))
	for _, sc := range scores {
		net, err := resolver.resolve(ctx, lg, sc)
		if err != nil {
			if errors.Is(err, errIncompleteRound) {
				logger.WarnContext(ctx, "skipping incomplete round",
					"league_id", lg.ID, "user_id", sc.UserID, "week", sc.Week)
				continue
			}
			return nil, err
		}
		rounds = append(rounds, resolvedRound{UserID: sc.UserID, Net: net, Gross: sc.Gross})
	}
	return rounds, nil
}

// rankRounds orders resolved rounds best-first: net ascending, gross as the
// tiebreak, user id last so the order is stable across runs.
func rankRounds(rounds []resolvedRound, names map[string]string) []RankedScore {
	sorted := make([]resolvedRound, len(rounds))
	copy(sorted, rounds)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Net != sorted[j].Net {
			return sorted[i].Net < sorted[j].Net
		}
		if sorted[i].Gross != sorted[j].Gross {
			return sorted[i].Gross < sorted[j].Gross
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	ranked := make([]RankedScore, 0, len(sorted))
	for _, r := range sorted {
		name := names[r.UserID]
		if name == "" {
			name = r.UserID
		}
		ranked = append(ranked, RankedScore{
			UserID:      r.UserID,
			DisplayName: name,
			Net:         r.Net,
			Gross:       r.Gross,
		})
	}
	return ranked
}

func displayNames(members []member.Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.DisplayName
	}
	return names
}
