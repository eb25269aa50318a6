// Package queue holds the durable FIFO of pending offline mutations.
//
// The queue is the in-memory mirror of the pending_actions table; the
// state container persists it through the store after every change so
// queued writes survive app restarts.
package queue

import (
	"sync"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

// Queue is a thread-safe FIFO of pending actions.
//
// Thread-safety matters because the UI thread enqueues while a drain pass
// reads a snapshot and acknowledges completions. Order is creation order
// and is never changed: a failed action keeps its position for the next
// drain pass.
type Queue struct {
	mu      sync.Mutex
	actions []domain.PendingAction
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{actions: make([]domain.PendingAction, 0, 16)}
}

// NewFrom creates a queue pre-loaded with persisted actions, preserving
// their stored order. Used once at startup.
func NewFrom(actions []domain.PendingAction) *Queue {
	q := New()
	q.actions = append(q.actions, actions...)
	return q
}

// Enqueue appends an action to the back of the queue.
func (q *Queue) Enqueue(a domain.PendingAction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.actions = append(q.actions, a)
}

// Snapshot returns a copy of the current queue contents in order.
// A drain pass operates on a snapshot so actions enqueued mid-drain are
// not processed twice in the same pass.
func (q *Queue) Snapshot() []domain.PendingAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.PendingAction, len(q.actions))
	copy(out, q.actions)
	return out
}

// Ack removes the actions with the given IDs. Remaining actions keep
// their relative order, including any enqueued after the drain snapshot
// was taken.
func (q *Queue) Ack(ids map[string]bool) {
	if len(ids) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.actions[:0]
	for _, a := range q.actions {
		if !ids[a.ID] {
			kept = append(kept, a)
		}
	}
	// Zero the tail so acknowledged payloads can be collected.
	for i := len(kept); i < len(q.actions); i++ {
		q.actions[i] = domain.PendingAction{}
	}
	q.actions = kept
}

// Len returns the current queue length.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}
