package memory

import (
	"context"
	"sync"

	"github.com/fairwayclub/league-engine/internal/domain/score"
)

type ScoreRepository struct {
	mu     sync.RWMutex
	scores map[string][]score.Score // leagueID → submissions
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{scores: make(map[string][]score.Score)}
}

func (r *ScoreRepository) Seed(scores ...score.Score) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sc := range scores {
		r.scores[sc.LeagueID] = append(r.scores[sc.LeagueID], sc)
	}
}

func (r *ScoreRepository) ListApprovedByWeek(_ context.Context, leagueID string, week int) ([]score.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(leagueID, week, func(s score.Score) bool {
		return s.Status == score.StatusApproved
	}), nil
}

func (r *ScoreRepository) ListSubmittedByWeek(_ context.Context, leagueID string, week int) ([]score.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(leagueID, week, func(s score.Score) bool {
		return s.Status == score.StatusApproved || s.Status == score.StatusPending
	}), nil
}

func (r *ScoreRepository) filter(leagueID string, week int, match func(score.Score) bool) []score.Score {
	var out []score.Score
	for _, sc := range r.scores[leagueID] {
		if sc.Week == week && match(sc) {
			out = append(out, sc)
		}
	}
	return out
}
