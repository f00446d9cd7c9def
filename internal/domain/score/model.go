package score

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Score is one player's round submission for one week. The score-entry
// flow produces these; the engine only reads them, and only the approved
// ones count toward results.
type Score struct {
	LeagueID string
	UserID   string
	Week     int

	CourseID       string
	TeeID          string
	CourseHandicap int

	// HoleScores are gross strokes per hole; nil marks an unscored hole.
	HoleScores []*int
	// AdjustedScores mirror HoleScores with handicap strokes removed.
	// Older submissions may omit them; the engine derives them then.
	AdjustedScores []*int

	Gross int
	// Net is nil when the submitting client did not compute it.
	Net *int

	Status Status
}
