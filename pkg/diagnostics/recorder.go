package diagnostics

import (
	"slices"
	"sync"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []exchange.Event
}

// Record implements exchange.Diagnostics.
func (r *Recorder) Record(e exchange.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []exchange.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
