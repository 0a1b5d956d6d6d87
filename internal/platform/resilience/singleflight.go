package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// in-flight execution. Duplicate callers block until the winner finishes
// and then share its result, so a burst of identical upstream fetches
// costs a single round trip.
type SingleFlight struct {
	mu      sync.Mutex
	pending map[string]*flight
}

type flight struct {
	done chan struct{}
	val  any
	err  error
}

// Do executes fn once per key at a time. The boolean reports whether the
// result came from another caller's in-flight execution.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.pending == nil {
		g.pending = make(map[string]*flight)
	}
	if f, ok := g.pending[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.val, f.err, true
	}
	f := &flight{done: make(chan struct{})}
	g.pending[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()

	g.mu.Lock()
	delete(g.pending, key)
	g.mu.Unlock()
	close(f.done)

	return f.val, f.err, false
}
