package testutil

import (
	"context"
	"sync"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/store"
)

// MemPersister is an in-memory stand-in for *store.Store that keeps the
// last saved snapshot and pending queue, for tests that don't need a
// real database file.
type MemPersister struct {
	mu       sync.Mutex
	Snapshot store.Snapshot
	Pending  []domain.PendingAction
	Saves    int
}

// NewMemPersister creates an empty persister.
func NewMemPersister() *MemPersister {
	return &MemPersister{}
}

func (p *MemPersister) SaveSnapshot(_ context.Context, snap store.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Snapshot = snap
	p.Saves++
	return nil
}

func (p *MemPersister) SavePendingActions(_ context.Context, actions []domain.PendingAction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Pending = append([]domain.PendingAction(nil), actions...)
	return nil
}

// LastSnapshot returns the most recently saved snapshot.
func (p *MemPersister) LastSnapshot() store.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Snapshot
}
