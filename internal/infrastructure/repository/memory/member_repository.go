package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fairwayclub/league-engine/internal/domain/member"
)

type MemberRepository struct {
	mu      sync.RWMutex
	members map[string]map[string]member.Member // leagueID → userID → member
}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{members: make(map[string]map[string]member.Member)}
}

func (r *MemberRepository) Seed(members ...member.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range members {
		if r.members[m.LeagueID] == nil {
			r.members[m.LeagueID] = make(map[string]member.Member)
		}
		r.members[m.LeagueID][m.UserID] = m
	}
}

// Get is a test helper for inspecting a member after updates.
func (r *MemberRepository) Get(leagueID, userID string) (member.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[leagueID][userID]
	return m, ok
}

func (r *MemberRepository) ListActive(_ context.Context, leagueID string) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []member.Member
	for _, m := range r.members[leagueID] {
		if m.Status == member.StatusActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *MemberRepository) ApplyWeekStats(_ context.Context, leagueID, userID string, stats member.WeekStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[leagueID][userID]
	if !ok {
		return fmt.Errorf("member %s not found in league %s", userID, leagueID)
	}
	if _, applied := m.WeekResults[stats.Week]; applied {
		// Week already applied; the replayed delta is a no-op.
		return nil
	}

	m.TotalPoints += stats.Points
	m.NetSum += stats.Net
	m.GrossSum += stats.Gross
	m.RoundsPlayed++
	if stats.Won {
		m.Wins++
	}
	if m.WeekResults == nil {
		m.WeekResults = make(map[int]member.WeekSnapshot)
	}
	m.WeekResults[stats.Week] = member.WeekSnapshot{
		Placement: stats.Placement,
		Points:    stats.Points,
		Net:       stats.Net,
		Gross:     stats.Gross,
	}

	r.members[leagueID][userID] = m
	return nil
}

func (r *MemberRepository) UpdatePositions(_ context.Context, leagueID string, updates []member.PositionUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range updates {
		m, ok := r.members[leagueID][u.UserID]
		if !ok {
			continue
		}
		m.PreviousPosition = u.PreviousPosition
		m.CurrentPosition = u.Position
		r.members[leagueID][u.UserID] = m
	}
	return nil
}
