package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fairwayclub/league-engine/internal/domain/team"
)

type TeamRepository struct {
	mu       sync.RWMutex
	teams    map[string]map[string]team.Team // leagueID → teamID → team
	matchups map[string][]team.Matchup       // leagueID → matchups
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		teams:    make(map[string]map[string]team.Team),
		matchups: make(map[string][]team.Matchup),
	}
}

func (r *TeamRepository) Seed(teams ...team.Team) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range teams {
		if r.teams[t.LeagueID] == nil {
			r.teams[t.LeagueID] = make(map[string]team.Team)
		}
		r.teams[t.LeagueID][t.ID] = t
	}
}

func (r *TeamRepository) SeedMatchups(matchups ...team.Matchup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mu := range matchups {
		r.matchups[mu.LeagueID] = append(r.matchups[mu.LeagueID], mu)
	}
}

// Get is a test helper for inspecting a team's record after deltas.
func (r *TeamRepository) Get(leagueID, teamID string) (team.Team, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.teams[leagueID][teamID]
	return t, ok
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Team
	for _, t := range r.teams[leagueID] {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) ListMatchups(_ context.Context, leagueID string, week int) ([]team.Matchup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Matchup
	for _, mu := range r.matchups[leagueID] {
		if mu.Week == week {
			out = append(out, mu)
		}
	}
	return out, nil
}

func (r *TeamRepository) ApplyMatchDelta(_ context.Context, leagueID, teamID string, week int, delta team.MatchDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[leagueID][teamID]
	if !ok {
		return fmt.Errorf("team %s not found in league %s", teamID, leagueID)
	}
	if _, applied := t.WeekRecords[week]; applied {
		// Week already applied; the replayed delta is a no-op.
		return nil
	}
	t.Wins += delta.Wins
	t.Losses += delta.Losses
	t.Ties += delta.Ties
	t.Points += delta.Points
	if t.WeekRecords == nil {
		t.WeekRecords = make(map[int]team.MatchDelta)
	}
	t.WeekRecords[week] = delta
	r.teams[leagueID][teamID] = t
	return nil
}
