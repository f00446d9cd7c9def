package course

import "fmt"

// HoleInfo is static reference data for one hole on a set of tees.
type HoleInfo struct {
	Number      int
	Par         int
	Yardage     int
	StrokeIndex int // difficulty rank, 1 = hardest
}

// Tee is one rated set of tee boxes on a course. Stroke allocation and the
// course handicap both depend on the tee actually played.
type Tee struct {
	ID           string
	CourseID     string
	Name         string
	CourseRating float64
	SlopeRating  int
	Par          int
	Holes        []HoleInfo
}

func (t Tee) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tee id is required")
	}
	if t.CourseID == "" {
		return fmt.Errorf("tee course id is required")
	}
	if t.SlopeRating <= 0 {
		return fmt.Errorf("tee slope rating must be positive")
	}

	n := len(t.Holes)
	if n != 9 && n != 18 {
		return fmt.Errorf("tee must carry 9 or 18 holes, got %d", n)
	}

	seen := make(map[int]bool, n)
	for _, h := range t.Holes {
		if h.StrokeIndex < 1 || h.StrokeIndex > n {
			return fmt.Errorf("hole %d stroke index %d out of range 1..%d", h.Number, h.StrokeIndex, n)
		}
		if seen[h.StrokeIndex] {
			return fmt.Errorf("duplicate stroke index %d", h.StrokeIndex)
		}
		seen[h.StrokeIndex] = true
	}

	return nil
}
