package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
)

type WeekResultRepository struct {
	mu      sync.RWMutex
	results map[string]weekresult.WeekResult // "leagueID#week"
}

func NewWeekResultRepository() *WeekResultRepository {
	return &WeekResultRepository{results: make(map[string]weekresult.WeekResult)}
}

// Create keeps the first write for a (league, week) pair; replays are
// no-ops, matching the postgres ON CONFLICT DO NOTHING behavior.
func (r *WeekResultRepository) Create(_ context.Context, result weekresult.WeekResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := weekKey(result.LeagueID, result.Week)
	if _, exists := r.results[key]; exists {
		return nil
	}
	r.results[key] = result
	return nil
}

func (r *WeekResultRepository) GetByWeek(_ context.Context, leagueID string, week int) (weekresult.WeekResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.results[weekKey(leagueID, week)]
	return result, ok, nil
}

// Count is a test helper.
func (r *WeekResultRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}

func weekKey(leagueID string, week int) string {
	return fmt.Sprintf("%s#%d", leagueID, week)
}
