package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fairwayclub/league-engine/internal/domain/course"
	"github.com/fairwayclub/league-engine/internal/domain/league"
	"github.com/fairwayclub/league-engine/internal/domain/member"
	"github.com/fairwayclub/league-engine/internal/domain/score"
	"github.com/fairwayclub/league-engine/internal/domain/team"
	"github.com/fairwayclub/league-engine/internal/domain/weekresult"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

// TeamMatchStrategy resolves a week of head-to-head team match play. Each
// configured matchup compares the summed nets of the members who actually
// scored; a side with no scored member forfeits, and a matchup where
// neither side scored is recorded but awards nothing. Individual standings
// are still updated from the same rounds, so the member leaderboard stays
// meaningful in team leagues.
type TeamMatchStrategy struct {
	scoreRepo  score.Repository
	memberRepo member.Repository
	teamRepo   team.Repository
	standings  *StandingsService
	resolver   netResolver
	logger     *logging.Logger
	now        func() time.Time
}

func NewTeamMatchStrategy(
	scoreRepo score.Repository,
	memberRepo member.Repository,
	teamRepo team.Repository,
	standings *StandingsService,
	courses course.Provider,
	logger *logging.Logger,
) *TeamMatchStrategy {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamMatchStrategy{
		scoreRepo:  scoreRepo,
		memberRepo: memberRepo,
		teamRepo:   teamRepo,
		standings:  standings,
		resolver:   netResolver{courses: courses},
		logger:     logger,
		now:        time.Now,
	}
}

// teamTotal is one side of a matchup after nets are settled.
type teamTotal struct {
	net    int
	scored int
}

func (s *TeamMatchStrategy) CompleteWeek(ctx context.Context, lg league.League, week int) (weekresult.WeekResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamMatchStrategy.CompleteWeek")
	defer span.End()

	scores, err := s.scoreRepo.ListApprovedByWeek(ctx, lg.ID, week)
	if err != nil {
		return weekresult.WeekResult{}, fmt.Errorf("list approved scores: %w", err)
	}
	if len(scores) == 0 {
		return weekresult.WeekResult{}, fmt.Errorf("%w: league=%s week=%d", ErrNoScores, lg.ID, week)
	}

	matchups, err := s.teamRepo.ListMatchups(ctx, lg.ID, week)
	if err != nil {
		return weekresult.WeekResult{}, fmt.Errorf("list matchups: %w", err)
	}
	if len(matchups) == 0 {
		return weekresult.WeekResult{}, fmt.Errorf("%w: league=%s week=%d has no matchups", ErrMissingConfiguration, lg.ID, week)
	}

	teams, err := s.teamRepo.ListByLeague(ctx, lg.ID)
	if err != nil {
		return weekresult.WeekResult{}, fmt.Errorf("list teams: %w", err)
	}
	teamsByID := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	rounds, err := resolveRounds(ctx, s.resolver, s.logger, lg, scores)
	if err != nil {
		return weekresult.WeekResult{}, err
	}
	if len(rounds) == 0 {
		return weekresult.WeekResult{}, fmt.Errorf("%w: league=%s week=%d resolved to nothing", ErrNoScores, lg.ID, week)
	}

	netByUser := make(map[string]int, len(rounds))
	for _, r := range rounds {
		netByUser[r.UserID] = r.Net
	}

	multiplier := lg.WeekMultiplier(week)
	winPoints := league.ScalePoints(lg.TeamScoring.PointsPerWin, multiplier)
	tiePoints := league.ScalePoints(lg.TeamScoring.PointsPerTie, multiplier)

	outcomes := make([]weekresult.MatchupOutcome, 0, len(matchups))
	var weekWinner *weekresult.MatchupOutcome
	for _, mu := range matchups {
		home, homeOK := teamsByID[mu.HomeTeamID]
		away, awayOK := teamsByID[mu.AwayTeamID]
		if !homeOK || !awayOK {
			return weekresult.WeekResult{}, fmt.Errorf("%w: matchup %s vs %s references unknown team",
				ErrMissingConfiguration, mu.HomeTeamID, mu.AwayTeamID)
		}

		homeTotal := sideTotal(home, netByUser)
		awayTotal := sideTotal(away, netByUser)

		outcome := weekresult.MatchupOutcome{
			HomeTeamID: mu.HomeTeamID,
			AwayTeamID: mu.AwayTeamID,
			HomeNet:    homeTotal.net,
			AwayNet:    awayTotal.net,
			HomeScored: homeTotal.scored,
			AwayScored: awayTotal.scored,
		}

		switch {
		case homeTotal.scored == 0 && awayTotal.scored == 0:
			// Nobody played; the matchup carries over as a scoreless record.
		case awayTotal.scored == 0 || (homeTotal.scored > 0 && homeTotal.net < awayTotal.net):
			outcome.WinnerID = &home.ID
		case homeTotal.scored == 0 || awayTotal.net < homeTotal.net:
			outcome.WinnerID = &away.ID
		default:
			outcome.Tie = true
		}

		if err := s.applyOutcome(ctx, lg, week, outcome, winPoints, tiePoints); err != nil {
			return weekresult.WeekResult{}, err
		}

		outcomes = append(outcomes, outcome)
		if outcome.WinnerID != nil {
			winning := winningNet(outcome)
			if weekWinner == nil || winning < winningNet(*weekWinner) {
				captured := outcome
				weekWinner = &captured
			}
		}
	}

	members, err := s.memberRepo.ListActive(ctx, lg.ID)
	if err != nil {
		return weekresult.WeekResult{}, fmt.Errorf("list members: %w", err)
	}

	ranked := rankRounds(rounds, displayNames(members))
	placements, err := s.standings.ApplyWeek(ctx, lg.ID, week, ranked, multiplier)
	if err != nil {
		return weekresult.WeekResult{}, err
	}

	result := weekresult.WeekResult{
		LeagueID:   lg.ID,
		Week:       week,
		Elevated:   lg.IsElevatedWeek(week),
		PrizeCents: lg.WeeklyPrizeCents(week),
		Currency:   lg.PurseCurrency(),
		Standings:  placements,
		Matchups:   outcomes,
		CreatedAt:  s.now(),
	}
	if weekWinner != nil {
		winnerID := *weekWinner.WinnerID
		result.WinnerTeamID = winnerID
		result.WinnerTeamName = teamsByID[winnerID].Name
		result.WinnerNet = winningNet(*weekWinner)
	}
	return result, nil
}

func (s *TeamMatchStrategy) applyOutcome(ctx context.Context, lg league.League, week int, outcome weekresult.MatchupOutcome, winPoints, tiePoints int) error {
	// A matchup where nobody scored leaves both records untouched.
	if outcome.WinnerID == nil && !outcome.Tie {
		return nil
	}

	deltaFor := func(teamID string) team.MatchDelta {
		if outcome.Tie {
			return team.MatchDelta{Ties: 1, Points: tiePoints}
		}
		if *outcome.WinnerID == teamID {
			return team.MatchDelta{Wins: 1, Points: winPoints}
		}
		return team.MatchDelta{Losses: 1}
	}

	for _, teamID := range []string{outcome.HomeTeamID, outcome.AwayTeamID} {
		if err := s.teamRepo.ApplyMatchDelta(ctx, lg.ID, teamID, week, deltaFor(teamID)); err != nil {
			return fmt.Errorf("apply match delta team=%s: %w", teamID, err)
		}
	}
	return nil
}

// sideTotal sums the nets of a team's members who actually posted a round.
func sideTotal(t team.Team, netByUser map[string]int) teamTotal {
	var total teamTotal
	for _, userID := range t.MemberIDs {
		net, ok := netByUser[userID]
		if !ok {
			continue
		}
		total.net += net
		total.scored++
	}
	return total
}

func winningNet(outcome weekresult.MatchupOutcome) int {
	if outcome.WinnerID != nil && *outcome.WinnerID == outcome.AwayTeamID {
		return outcome.AwayNet
	}
	return outcome.HomeNet
}
