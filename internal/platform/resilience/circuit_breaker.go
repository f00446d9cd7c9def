package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type circuitState int

const (
	stateClosed circuitState = iota
	stateOpen
	stateHalfOpen
)

func (s circuitState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// Breaker protects a flaky dependency: it opens after a run of consecutive
// failures, rejects calls while open, and probes with a single call once the
// open timeout elapses.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration

	state    circuitState
	failures int
	openedAt time.Time
	probing  bool
	now      func() time.Time
}

func NewBreaker(failureThreshold int, openTimeout time.Duration) *Breaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}

	return &Breaker{
		failureThreshold: failureThreshold,
		openTimeout:      openTimeout,
		now:              time.Now,
	}
}

// Do executes fn under the breaker, recording its outcome.
func (b *Breaker) Do(fn func() error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn()
	b.record(err == nil)
	return err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateOpen:
		if b.now().Sub(b.openedAt) < b.openTimeout {
			return ErrCircuitOpen
		}
		b.state = stateHalfOpen
		b.probing = true
		return nil
	case stateHalfOpen:
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
		return nil
	default:
		return nil
	}
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateHalfOpen:
		b.probing = false
		if success {
			b.state = stateClosed
			b.failures = 0
		} else {
			b.state = stateOpen
			b.openedAt = b.now()
		}
	case stateClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.failureThreshold {
			b.state = stateOpen
			b.openedAt = b.now()
		}
	case stateOpen:
		if !success {
			b.openedAt = b.now()
		}
	}
}

func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return stateHalfOpen.String()
	}
	return b.state.String()
}
