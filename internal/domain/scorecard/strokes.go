package scorecard

import (
	"math"

	"github.com/fairwayclub/league-engine/internal/domain/course"
)

// CourseHandicap converts a player's handicap index into the stroke
// allowance for a given tee: round(index × slope / 113), halved (and
// rounded again) for a 9-hole round.
func CourseHandicap(handicapIndex float64, slopeRating int, holesPerRound int) int {
	value := handicapIndex * float64(slopeRating) / 113
	if holesPerRound == 9 {
		value = math.Round(value) / 2
	}
	return int(math.Round(value))
}

// AllocateStrokes distributes courseHandicap strokes across holes by stroke
// index. Every hole receives floor(H/N) strokes; the remainder goes to the
// hardest holes first (stroke index ≤ H mod N). A zero or negative handicap
// allocates nothing. The returned slice is positional, matching holes.
func AllocateStrokes(courseHandicap int, holes []course.HoleInfo) []int {
	strokes := make([]int, len(holes))
	if courseHandicap <= 0 || len(holes) == 0 {
		return strokes
	}

	fullPasses := courseHandicap / len(holes)
	remainder := courseHandicap % len(holes)

	for i, h := range holes {
		strokes[i] = fullPasses
		if h.StrokeIndex <= remainder {
			strokes[i]++
		}
	}

	return strokes
}

// AdjustedScores subtracts allocated strokes from gross hole scores.
// An unscored hole (nil) stays nil; it never collapses to zero.
func AdjustedScores(gross []*int, strokes []int) []*int {
	adjusted := make([]*int, len(gross))
	for i, g := range gross {
		if g == nil {
			continue
		}
		value := *g
		if i < len(strokes) {
			value -= strokes[i]
		}
		adjusted[i] = &value
	}
	return adjusted
}
