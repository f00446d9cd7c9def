package resilience

import "sync"

// Group collapses concurrent calls for the same key into a single execution.
// Later callers block until the first call finishes and share its result.
type Group struct {
	mu    sync.Mutex
	calls map[string]*inflight
}

type inflight struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. The third return value reports whether
// the result was shared from another caller's execution.
func (g *Group) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*inflight)
	}

	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &inflight{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	close(c.done)

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return c.val, c.err, false
}

// Forget drops the in-flight entry for key so the next Do starts fresh even
// if an earlier call is still running.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}
