package events

import (
	"context"
	"slices"
	"sync"

	"github.com/heartmarshall/accountlinking/internal/domain"
)

// Recorder keeps every event it receives and lets callers block until a
// given decision point has been reached.
type Recorder struct {
	mu      sync.Mutex
	events  []domain.DecisionEvent
	waiters map[domain.DecisionPoint][]chan struct{}
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{waiters: make(map[domain.DecisionPoint][]chan struct{})}
}

func (r *Recorder) Emit(_ context.Context, ev domain.DecisionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
	for _, ch := range r.waiters[ev.Point] {
		close(ch)
	}
	delete(r.waiters, ev.Point)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []domain.DecisionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Points returns the recorded decision points, in order.
func (r *Recorder) Points() []domain.DecisionPoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]domain.DecisionPoint, len(r.events))
	for i, ev := range r.events {
		points[i] = ev.Point
	}
	return points
}

// Has reports whether point was recorded.
func (r *Recorder) Has(point domain.DecisionPoint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasLocked(point)
}

// Count returns how many times point was recorded.
func (r *Recorder) Count(point domain.DecisionPoint) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, ev := range r.events {
		if ev.Point == point {
			n++
		}
	}
	return n
}

func (r *Recorder) hasLocked(point domain.DecisionPoint) bool {
	return slices.ContainsFunc(r.events, func(ev domain.DecisionEvent) bool { return ev.Point == point })
}

// Wait blocks until point has been recorded or ctx is done.
func (r *Recorder) Wait(ctx context.Context, point domain.DecisionPoint) error {
	r.mu.Lock()
	if r.hasLocked(point) {
		r.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	r.waiters[point] = append(r.waiters[point], ch)
	r.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset forgets recorded events. Pending waiters keep waiting.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
