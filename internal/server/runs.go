package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prPMDev/elevateli/internal/pipeline"
)

// Run is one analysis request tracked by the server. Status mirrors the
// pipeline state; Result lands once the run completes.
type Run struct {
	ID        uuid.UUID                `json:"id"`
	ProfileID string                   `json:"profile_id"`
	Status    pipeline.State           `json:"status"`
	Error     string                   `json:"error,omitempty"`
	Result    *pipeline.Result         `json:"result,omitempty"`
	Events    []pipeline.ProgressEvent `json:"events,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// runRegistry holds runs in memory. Runs are ephemeral; the durable record
// of an analysis is the cache entry, not the run.
type runRegistry struct {
	mu          sync.RWMutex
	runs        map[uuid.UUID]*Run
	subscribers map[uuid.UUID][]chan pipeline.ProgressEvent
}

func newRunRegistry() *runRegistry {
	return &runRegistry{
		runs:        make(map[uuid.UUID]*Run),
		subscribers: make(map[uuid.UUID][]chan pipeline.ProgressEvent),
	}
}

func (r *runRegistry) create(profileID string) *Run {
	run := &Run{
		ID:        uuid.New(),
		ProfileID: profileID,
		Status:    pipeline.StateInitializing,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.runs[run.ID] = run
	r.mu.Unlock()
	return run
}

// get returns a copy so callers never see a run mid-update.
func (r *runRegistry) get(id uuid.UUID) (Run, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return Run{}, false
	}
	out := *run
	out.Events = append([]pipeline.ProgressEvent(nil), run.Events...)
	return out, true
}

func (r *runRegistry) list() []Run {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Run, 0, len(r.runs))
	for _, run := range r.runs {
		copied := *run
		copied.Events = nil
		out = append(out, copied)
	}
	return out
}

// progress records an event and fans it out to subscribers. Slow subscribers
// drop events instead of blocking the pipeline.
func (r *runRegistry) progress(id uuid.UUID, event pipeline.ProgressEvent) {
	r.mu.Lock()
	run, ok := r.runs[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	run.Status = event.State
	run.Events = append(run.Events, event)
	run.UpdatedAt = time.Now().UTC()
	subs := append([]chan pipeline.ProgressEvent(nil), r.subscribers[id]...)
	r.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (r *runRegistry) finish(id uuid.UUID, result *pipeline.Result, err error) {
	r.mu.Lock()
	run, ok := r.runs[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	if err != nil {
		run.Status = pipeline.StateError
		run.Error = err.Error()
	} else {
		run.Status = pipeline.StateComplete
		run.Result = result
	}
	run.UpdatedAt = time.Now().UTC()
	subs := r.subscribers[id]
	delete(r.subscribers, id)
	r.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}

// subscribe returns the events recorded so far plus a channel of further
// ones, taken under one lock so nothing is duplicated or lost between them.
// The channel closes when the run finishes. The bool is false for unknown
// runs.
func (r *runRegistry) subscribe(id uuid.UUID) ([]pipeline.ProgressEvent, <-chan pipeline.ProgressEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, nil, false
	}

	past := append([]pipeline.ProgressEvent(nil), run.Events...)
	ch := make(chan pipeline.ProgressEvent, 64)
	if run.Status == pipeline.StateComplete || run.Status == pipeline.StateError {
		close(ch)
		return past, ch, true
	}
	r.subscribers[id] = append(r.subscribers[id], ch)
	return past, ch, true
}
