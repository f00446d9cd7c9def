package scorecard

import (
	"testing"

	"github.com/fairwayclub/league-engine/internal/domain/course"
)

func standardHoles(n int) []course.HoleInfo {
	holes := make([]course.HoleInfo, n)
	for i := range holes {
		holes[i] = course.HoleInfo{
			Number:      i + 1,
			Par:         4,
			Yardage:     350 + i,
			StrokeIndex: i + 1,
		}
	}
	return holes
}

func TestAllocateStrokesConservation(t *testing.T) {
	t.Parallel()

	for _, n := range []int{9, 18} {
		holes := standardHoles(n)
		for h := 0; h <= 3*n; h++ {
			strokes := AllocateStrokes(h, holes)
			total := 0
			for _, s := range strokes {
				total += s
			}
			if total != h {
				t.Fatalf("n=%d handicap=%d: allocated %d strokes", n, h, total)
			}
		}
	}
}

func TestAllocateStrokesMonotonicByIndex(t *testing.T) {
	t.Parallel()

	holes := standardHoles(18)
	// Shuffle hole order so the property is about stroke index, not position.
	holes[0], holes[17] = holes[17], holes[0]
	holes[3], holes[11] = holes[11], holes[3]

	for h := 0; h <= 54; h++ {
		strokes := AllocateStrokes(h, holes)
		byIndex := make(map[int]int, len(holes))
		for i, hole := range holes {
			byIndex[hole.StrokeIndex] = strokes[i]
		}
		for si := 1; si < len(holes); si++ {
			if byIndex[si] < byIndex[si+1] {
				t.Fatalf("handicap=%d: index %d got %d strokes, index %d got %d",
					h, si, byIndex[si], si+1, byIndex[si+1])
			}
		}
	}
}

func TestAllocateStrokesNegativeHandicap(t *testing.T) {
	t.Parallel()

	for _, s := range AllocateStrokes(-3, standardHoles(18)) {
		if s != 0 {
			t.Fatalf("negative handicap allocated %d strokes", s)
		}
	}
}

func TestAllocateStrokesTwentyOverEighteen(t *testing.T) {
	t.Parallel()

	holes := standardHoles(18)
	strokes := AllocateStrokes(20, holes)
	for i, hole := range holes {
		want := 1
		if hole.StrokeIndex <= 2 {
			want = 2
		}
		if strokes[i] != want {
			t.Fatalf("hole index %d: got %d strokes, want %d", hole.StrokeIndex, strokes[i], want)
		}
	}
}

func TestAdjustedScoresScenario(t *testing.T) {
	t.Parallel()

	holes := standardHoles(18)
	strokes := AllocateStrokes(20, holes)

	gross := make([]*int, 18)
	for i := range gross {
		g := 5
		gross[i] = &g
	}
	// 18×5 = 90 gross.
	adjusted := AdjustedScores(gross, strokes)

	line := SumLine(adjusted)
	if line.Total == nil || *line.Total != 70 {
		t.Fatalf("adjusted total = %v, want 70", line.Total)
	}
}

func TestAdjustedScoresNilPropagation(t *testing.T) {
	t.Parallel()

	gross := make([]*int, 18)
	for i := range gross {
		if i == 4 {
			continue // front-nine hole left unscored
		}
		g := 4
		gross[i] = &g
	}

	adjusted := AdjustedScores(gross, make([]int, 18))
	if adjusted[4] != nil {
		t.Fatal("unscored hole must stay nil after adjustment")
	}

	line := SumLine(adjusted)
	if line.Front != nil {
		t.Fatalf("front aggregate = %v, want nil", *line.Front)
	}
	if line.Total != nil {
		t.Fatalf("total aggregate = %v, want nil", *line.Total)
	}
	if line.Back == nil || *line.Back != 36 {
		t.Fatalf("back aggregate = %v, want 36", line.Back)
	}
}

func TestCourseHandicap(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		index float64
		slope int
		holes int
		want  int
	}{
		{"scratch", 0, 113, 18, 0},
		{"neutral slope", 10, 113, 18, 10},
		{"steep slope rounds up", 12.4, 135, 18, 15},
		{"nine holes halves", 12.4, 135, 9, 8},
		{"plus handicap stays negative", -2.0, 113, 18, -2},
	}
	for _, tc := range cases {
		if got := CourseHandicap(tc.index, tc.slope, tc.holes); got != tc.want {
			t.Errorf("%s: CourseHandicap(%v, %d, %d) = %d, want %d",
				tc.name, tc.index, tc.slope, tc.holes, got, tc.want)
		}
	}
}
