package course

import "context"

// Provider supplies course and tee reference data from the third-party
// course API. Implementations are expected to cache aggressively: tee data
// changes rarely and the processor may look up the same tee for every
// member of a league in one run.
type Provider interface {
	GetTee(ctx context.Context, courseID, teeID string) (Tee, bool, error)
}
