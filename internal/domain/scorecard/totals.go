package scorecard

import "github.com/fairwayclub/league-engine/internal/domain/course"

// Line holds front-half, back-half and full-round sums for one column of a
// scorecard. A sum is nil whenever any contributing hole is nil: an
// incomplete round has no total, which is how callers distinguish "not yet
// finished" from "scored zero".
type Line struct {
	Front *int
	Back  *int
	Total *int
}

// SumLine aggregates one column of per-hole values.
func SumLine(values []*int) Line {
	half := len(values) / 2
	return Line{
		Front: sumRange(values[:half]),
		Back:  sumRange(values[half:]),
		Total: sumRange(values),
	}
}

// ParLine and YardageLine aggregate tee reference data into the same shape
// the score columns use.
func ParLine(holes []course.HoleInfo) Line {
	return SumLine(holeColumn(holes, func(h course.HoleInfo) int { return h.Par }))
}

func YardageLine(holes []course.HoleInfo) Line {
	return SumLine(holeColumn(holes, func(h course.HoleInfo) int { return h.Yardage }))
}

func sumRange(values []*int) *int {
	if len(values) == 0 {
		return nil
	}
	total := 0
	for _, v := range values {
		if v == nil {
			return nil
		}
		total += *v
	}
	return &total
}

func holeColumn(holes []course.HoleInfo, pick func(course.HoleInfo) int) []*int {
	out := make([]*int, len(holes))
	for i, h := range holes {
		value := pick(h)
		out[i] = &value
	}
	return out
}
