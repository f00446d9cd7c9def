// Package memory holds map-backed repository implementations. They serve
// local development without a database and give the service tests fast,
// deterministic fixtures. The compare-and-set semantics mirror the postgres
// implementations exactly.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[string]league.League
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{leagues: make(map[string]league.League)}
}

// Seed loads fixtures; it replaces any league with the same ID.
func (r *LeagueRepository) Seed(leagues ...league.League) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lg := range leagues {
		r.leagues[lg.ID] = lg
	}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lg, ok := r.leagues[leagueID]
	return lg, ok, nil
}

func (r *LeagueRepository) ListByStatus(_ context.Context, status league.Status) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(lg league.League) bool {
		return lg.Status == status
	}), nil
}

func (r *LeagueRepository) ListUpcomingStartingOn(_ context.Context, startDate time.Time) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(lg league.League) bool {
		return lg.Status == league.StatusUpcoming && sameDay(lg.StartDate, startDate)
	}), nil
}

func (r *LeagueRepository) ListActiveByPlayDay(_ context.Context, day time.Weekday) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(lg league.League) bool {
		return lg.Status == league.StatusActive && lg.PlayDay == day
	}), nil
}

func (r *LeagueRepository) MarkStartingNotice(_ context.Context, leagueID, dateKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.leagues[leagueID]
	if !ok || lg.Status != league.StatusUpcoming || lg.LastStartingNotice == dateKey {
		return false, nil
	}
	lg.LastStartingNotice = dateKey
	r.leagues[leagueID] = lg
	return true, nil
}

func (r *LeagueRepository) Activate(_ context.Context, leagueID, dateKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.leagues[leagueID]
	if !ok || lg.Status != league.StatusUpcoming {
		return false, nil
	}
	lg.Status = league.StatusActive
	lg.CurrentWeek = 1
	lg.LastActivatedOn = dateKey
	r.leagues[leagueID] = lg
	return true, nil
}

func (r *LeagueRepository) MarkReminderSent(_ context.Context, leagueID, reminderKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.leagues[leagueID]
	if !ok || lg.Status != league.StatusActive || lg.LastReminderKey == reminderKey {
		return false, nil
	}
	lg.LastReminderKey = reminderKey
	r.leagues[leagueID] = lg
	return true, nil
}

func (r *LeagueRepository) AdvanceWeek(_ context.Context, leagueID string, processedWeek int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.leagues[leagueID]
	if !ok || !weekGuard(lg, processedWeek) {
		return false, nil
	}
	lg.LastProcessedWeek = processedWeek
	lg.CurrentWeek = processedWeek + 1
	r.leagues[leagueID] = lg
	return true, nil
}

func (r *LeagueRepository) CompleteSeason(_ context.Context, leagueID string, processedWeek int, champion league.Champion) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lg, ok := r.leagues[leagueID]
	if !ok || !weekGuard(lg, processedWeek) {
		return false, nil
	}
	lg.LastProcessedWeek = processedWeek
	lg.Status = league.StatusCompleted
	lg.Champion = &champion
	r.leagues[leagueID] = lg
	return true, nil
}

func weekGuard(lg league.League, processedWeek int) bool {
	return lg.Status == league.StatusActive &&
		lg.CurrentWeek == processedWeek &&
		lg.LastProcessedWeek < processedWeek
}

func (r *LeagueRepository) collect(match func(league.League) bool) []league.League {
	var out []league.League
	for _, lg := range r.leagues {
		if match(lg) {
			out = append(out, lg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
