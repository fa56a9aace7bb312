package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution; late arrivals block and receive the shared result.
type SingleFlight struct {
	mu       sync.Mutex
	inFlight map[string]*flightCall
}

type flightCall struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. The bool result reports whether the
// value was shared from another caller's execution.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inFlight == nil {
		g.inFlight = make(map[string]*flightCall)
	}
	if c, ok := g.inFlight[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}
	c := &flightCall{done: make(chan struct{})}
	g.inFlight[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	close(c.done)

	g.mu.Lock()
	delete(g.inFlight, key)
	g.mu.Unlock()

	return c.val, c.err, false
}
