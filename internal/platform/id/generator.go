// Package id mints the opaque identifiers notification rows are keyed by.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator mints unique string IDs. Implementations must be safe for
// concurrent use; the notifier calls NewID once per recipient in a fan-out.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator draws IDs from crypto/rand. 16 bytes keeps collisions
// out of the picture at notification volume without needing coordination.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns a 32-character lowercase hex string.
func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("draw id entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
