// Package testutil provides test doubles shared across the engine's
// test suites: a recording fake of the remote client and an in-memory
// persister.
package testutil

import (
	"context"
	"sync"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/remote"
)

// Call records one remote operation the fake received.
type Call struct {
	Op      string
	Payload any
}

// FakeRemote is an in-memory remote.Client that records every call in
// order. Err, when set, is returned by all mutating operations -
// set a transient *remote.Error to simulate a down server, or a
// permanent one to simulate rejection.
type FakeRemote struct {
	mu    sync.Mutex
	calls []Call

	Err     error
	Bundle  *remote.Bundle // returned by FetchAll; nil means ErrNotFound
	Streaks []domain.StreakRecord

	// CanonicalMember, when non-nil, transforms the member echoed back
	// by UpsertMember (simulates server-assigned fields).
	CanonicalMember func(domain.Member) domain.Member
}

var _ remote.Client = (*FakeRemote)(nil)

// NewFakeRemote creates an empty fake.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{}
}

// Calls returns a copy of the recorded calls in order.
func (f *FakeRemote) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Ops returns just the operation names, in order.
func (f *FakeRemote) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, len(f.calls))
	for i, c := range f.calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset clears recorded calls.
func (f *FakeRemote) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeRemote) record(op string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.calls = append(f.calls, Call{Op: op, Payload: payload})
	return nil
}

func (f *FakeRemote) CreateReward(_ context.Context, e domain.RewardEvent) error {
	return f.record("create_reward", e)
}

func (f *FakeRemote) CreateLog(_ context.Context, l domain.ActivityLog) error {
	return f.record("create_log", l)
}

func (f *FakeRemote) CreatePreparation(_ context.Context, p domain.Preparation) error {
	return f.record("create_preparation", p)
}

func (f *FakeRemote) CreateConnection(_ context.Context, c domain.Connection) error {
	return f.record("create_connection", c)
}

func (f *FakeRemote) UpsertMember(_ context.Context, m domain.Member) (domain.Member, error) {
	if err := f.record("upsert_member", m); err != nil {
		return domain.Member{}, err
	}
	if f.CanonicalMember != nil {
		return f.CanonicalMember(m), nil
	}
	return m, nil
}

func (f *FakeRemote) UpdateFamily(_ context.Context, fam domain.Family) (domain.Family, error) {
	if err := f.record("update_family", fam); err != nil {
		return domain.Family{}, err
	}
	return fam, nil
}

func (f *FakeRemote) FetchAll(_ context.Context, familyID string) (*remote.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.calls = append(f.calls, Call{Op: "fetch_all", Payload: familyID})
	if f.Bundle == nil {
		return nil, remote.ErrNotFound
	}
	b := *f.Bundle
	return &b, nil
}

func (f *FakeRemote) FetchStreaks(_ context.Context, familyID string) ([]domain.StreakRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.calls = append(f.calls, Call{Op: "fetch_streaks", Payload: familyID})
	return append([]domain.StreakRecord(nil), f.Streaks...), nil
}
