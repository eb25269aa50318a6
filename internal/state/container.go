package state

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/aggregate"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/dayclock"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/queue"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/remote"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/store"
)

// defaultPeriodDays is used for the wall clock until a family with its
// own period length is loaded.
const defaultPeriodDays = 30

// Persister is the durable storage the container writes through on every
// state change. *store.Store satisfies it; tests use an in-memory fake.
type Persister interface {
	SaveSnapshot(ctx context.Context, snap store.Snapshot) error
	SavePendingActions(ctx context.Context, actions []domain.PendingAction) error
}

// Milestone is the celebratory signal raised when a reward grant pushes
// the family total across one or more constellation thresholds. Exactly
// one Milestone is raised per mutation; Tier is the highest newly
// unlocked tier (1-based).
type Milestone struct {
	Tier      int
	Threshold int
	Total     int
}

// Container is the single mutable snapshot behind the UI.
//
// INVARIANTS:
//   - At most one family is loaded at a time.
//   - rewards and logs are append-only within a session; only the pull
//     path replaces them wholesale.
//   - The all-time collections are authoritative for duplicate
//     prevention and milestone math; "today" views are projections of
//     them at the clock's current day, never independent collections.
//   - activeMemberID is either empty or the ID of a member in members.
type Container struct {
	mu sync.Mutex

	log     *zap.Logger
	ids     IDGenerator
	clock   dayclock.Clock
	preview bool // clock is a preview override, not the wall clock
	remote  remote.Client
	persist Persister
	pending *queue.Queue

	family         *domain.Family
	members        []domain.Member
	activeMemberID string

	rewards      []domain.RewardEvent // all-time, authoritative
	logs         []domain.ActivityLog // all-time, authoritative
	preparations []domain.Preparation
	connections  []domain.Connection
	streaks      map[string]domain.StreakRecord

	locked  bool
	lockPIN string

	online       bool
	lastSyncedAt time.Time

	onMilestone func(Milestone)
}

// Params configures a Container. Zero fields get working defaults:
// nop logger, UUIDv7 IDs, empty queue, a 30-day wall clock anchored at
// construction time, no remote (treated as permanently offline), no
// persistence.
type Params struct {
	Log       *zap.Logger
	IDs       IDGenerator
	Clock     dayclock.Clock
	Remote    remote.Client
	Persister Persister
	Pending   *queue.Queue
}

// New creates an empty container.
func New(p Params) *Container {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	if p.IDs == nil {
		p.IDs = UUIDv7Generator{}
	}
	if p.Clock == nil {
		p.Clock = dayclock.NewWallClock(time.Now(), defaultPeriodDays)
	}
	if p.Pending == nil {
		p.Pending = queue.New()
	}

	return &Container{
		log:     p.Log,
		ids:     p.IDs,
		clock:   p.Clock,
		remote:  p.Remote,
		persist: p.Persister,
		pending: p.Pending,
		streaks: map[string]domain.StreakRecord{},
	}
}

// Restore loads a persisted snapshot into the container. Called exactly
// once at startup, before any action method. The persisted today-scoped
// event collections seed the (otherwise empty) all-time log so totals
// and dedupe work before the first pull completes.
func (c *Container) Restore(snap store.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.family = snap.Family
	c.members = append([]domain.Member(nil), snap.Members...)
	c.activeMemberID = snap.ActiveMemberID
	c.locked = snap.Locked
	c.lockPIN = snap.LockPIN
	c.rewards = append([]domain.RewardEvent(nil), snap.TodayRewards...)
	c.logs = append([]domain.ActivityLog(nil), snap.TodayLogs...)
	c.preparations = append([]domain.Preparation(nil), snap.Preparations...)
	c.connections = append([]domain.Connection(nil), snap.Connections...)
	c.lastSyncedAt = snap.LastSyncedAt

	c.streaks = map[string]domain.StreakRecord{}
	for _, st := range snap.Streaks {
		c.streaks[st.MemberID] = st
	}

	if snap.TestPhase != "" {
		c.clock = dayclock.NewFixedClock(snap.TestDay, dayclock.Phase(snap.TestPhase))
		c.preview = true
	} else {
		c.resetClockLocked()
	}
}

// OnMilestone registers the celebratory-signal callback. The callback
// runs synchronously on the mutating goroutine after the container lock
// is released, so it may call getters freely.
func (c *Container) OnMilestone(fn func(Milestone)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMilestone = fn
}

// SetOnline records the connectivity flag. Draining on an offline-to-
// online transition is the reconciler's job; the container only routes
// new mutations by this flag.
func (c *Container) SetOnline(online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.online = online
}

// SetLastSyncedAt stamps the last successful (possibly partial) drain.
func (c *Container) SetLastSyncedAt(ctx context.Context, t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSyncedAt = t
	c.saveLocked(ctx)
}

// resetClockLocked rebuilds the wall clock from the loaded family.
func (c *Container) resetClockLocked() {
	c.preview = false
	if c.family != nil {
		days := c.family.Days
		if days <= 0 {
			days = defaultPeriodDays
		}
		c.clock = dayclock.NewWallClock(c.family.StartDate, days)
		return
	}
	c.clock = dayclock.NewWallClock(time.Now(), defaultPeriodDays)
}

// saveLocked writes the persisted subset of the container through the
// persistence adapter. Storage errors are logged and swallowed: losing a
// debounce-sized window of local persistence is recoverable, crashing
// the UI thread is not. Callers must hold c.mu.
func (c *Container) saveLocked(ctx context.Context) {
	if c.persist == nil {
		return
	}

	day := c.clock.Day()
	snap := store.Snapshot{
		Version:        store.SnapshotVersion,
		Family:         c.family,
		Members:        append([]domain.Member{}, c.members...),
		ActiveMemberID: c.activeMemberID,
		Locked:         c.locked,
		LockPIN:        c.lockPIN,
		TodayRewards:   aggregate.EventsOnDay(c.rewards, day),
		TodayLogs:      aggregate.LogsOnDay(c.logs, day),
		Preparations:   append([]domain.Preparation{}, c.preparations...),
		Connections:    append([]domain.Connection{}, c.connections...),
		LastSyncedAt:   c.lastSyncedAt,
	}
	if snap.TodayRewards == nil {
		snap.TodayRewards = []domain.RewardEvent{}
	}
	if snap.TodayLogs == nil {
		snap.TodayLogs = []domain.ActivityLog{}
	}
	for _, st := range c.streaks {
		snap.Streaks = append(snap.Streaks, st)
	}
	if c.preview {
		snap.TestPhase = string(c.clock.Phase())
		snap.TestDay = c.clock.Day()
	}

	if err := c.persist.SaveSnapshot(ctx, snap); err != nil {
		c.log.Warn("persist snapshot failed", zap.Error(err))
	}
	if err := c.persist.SavePendingActions(ctx, c.pending.Snapshot()); err != nil {
		c.log.Warn("persist pending actions failed", zap.Error(err))
	}
}

// Flush forces a persistence pass. Used by the reconciler after it
// mutates the pending queue.
func (c *Container) Flush(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saveLocked(ctx)
}
