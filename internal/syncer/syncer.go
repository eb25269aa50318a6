// Package syncer is the reconciliation engine between the local state
// container and the remote authority.
//
// It owns the two network-touching paths: pull (authoritative full-
// snapshot refresh, replacing local collections wholesale) and drain
// (sequential FIFO replay of the pending-action queue). The two paths
// are serialized by a syncing gate - a pull must never run concurrently
// with a drain, or the drain could re-add actions the pull just
// superseded. Local reads keep flowing during either; only the network
// paths are mutually exclusive.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/queue"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/remote"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/state"
)

// ErrSyncInProgress is returned when a pull or drain is requested while
// another is in flight. Callers treat it as "ignore and retry later",
// not a failure.
var ErrSyncInProgress = errors.New("syncer: sync already in progress")

// Backoff bounds for repeated failing drain passes. No reordering and no
// per-action backoff - the whole pass backs off to avoid hot-looping
// against a down server.
const (
	initialBackoff = 2 * time.Second
	maxBackoff     = 2 * time.Minute
)

// Reconciler orchestrates pull and drain against the remote authority.
type Reconciler struct {
	log     *zap.Logger
	state   *state.Container
	pending *queue.Queue
	remote  remote.Client

	mu      sync.Mutex
	syncing bool // gate: pull and drain are mutually exclusive

	backoff     time.Duration
	nextAttempt time.Time
	now         func() time.Time
}

// New creates a reconciler. The pending queue must be the same instance
// the container enqueues into.
func New(log *zap.Logger, st *state.Container, pending *queue.Queue, rc remote.Client) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		log:     log,
		state:   st,
		pending: pending,
		remote:  rc,
		backoff: initialBackoff,
		now:     time.Now,
	}
}

// begin acquires the syncing gate. A second pull/drain request while one
// is in flight is rejected, never queued.
func (r *Reconciler) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.syncing {
		return false
	}
	r.syncing = true
	return true
}

func (r *Reconciler) end() {
	r.mu.Lock()
	r.syncing = false
	r.mu.Unlock()
}

// Syncing reports whether a pull or drain is in flight, for the UI's
// non-blocking sync indicator.
func (r *Reconciler) Syncing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.syncing
}

// Pull fetches the full remote snapshot and replaces local collections
// wholesale. If no remote family exists, all local family/member state
// is cleared (the user has not finished onboarding).
func (r *Reconciler) Pull(ctx context.Context) error {
	if !r.begin() {
		return ErrSyncInProgress
	}
	defer r.end()

	return r.pullLocked(ctx)
}

func (r *Reconciler) pullLocked(ctx context.Context) error {
	familyID := ""
	if fam, ok := r.state.Family(); ok {
		familyID = fam.ID
	}

	bundle, err := r.remote.FetchAll(ctx, familyID)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			r.log.Info("no remote family, clearing local state")
			r.state.Clear(ctx)
			return nil
		}
		return err
	}

	r.state.ApplyBundle(ctx, bundle)
	r.log.Info("pull applied",
		zap.String("family", bundle.Family.ID),
		zap.Int("members", len(bundle.Members)),
		zap.Int("rewards", len(bundle.Rewards)),
		zap.Int("logs", len(bundle.Logs)),
	)

	// Streaks ride along with every pull; the recurrence rule lives
	// server-side so this is the only way they update.
	if streaks, err := r.remote.FetchStreaks(ctx, bundle.Family.ID); err == nil {
		r.state.SetStreaks(ctx, streaks)
	} else {
		r.log.Debug("streak fetch failed", zap.Error(err))
	}

	return nil
}

// Drain replays the pending queue against the remote, sequentially and
// in creation order - some operations are logically dependent (a member
// must exist before a reward referencing it means anything server-side).
// The queue afterwards contains exactly the subset that failed
// transiently; permanent rejections are dropped.
func (r *Reconciler) Drain(ctx context.Context) error {
	if !r.begin() {
		return ErrSyncInProgress
	}
	defer r.end()

	if wait := r.nextAttempt.Sub(r.now()); wait > 0 {
		r.log.Debug("drain backing off", zap.Duration("remaining", wait))
		return nil
	}

	return r.drainLocked(ctx)
}

func (r *Reconciler) drainLocked(ctx context.Context) error {
	// Snapshot first: actions enqueued mid-drain wait for the next pass.
	snapshot := r.pending.Snapshot()
	if len(snapshot) == 0 {
		return nil
	}

	acked := make(map[string]bool, len(snapshot))
	var firstErr error
	transientFailures := 0

	for _, a := range snapshot {
		if err := ctx.Err(); err != nil {
			break
		}

		err := r.dispatch(ctx, a)
		if err == nil {
			acked[a.ID] = true
			continue
		}

		if remote.IsPermanent(err) {
			// Retrying a permanently rejected payload would loop forever.
			r.log.Warn("dropping rejected pending action",
				zap.String("id", a.ID),
				zap.String("kind", string(a.Kind)),
				zap.Error(err),
			)
			acked[a.ID] = true
			continue
		}

		transientFailures++
		if firstErr == nil {
			firstErr = err
		}
		r.log.Debug("pending action failed, retained",
			zap.String("id", a.ID),
			zap.String("kind", string(a.Kind)),
			zap.Error(err),
		)
	}

	r.pending.Ack(acked)
	r.state.Flush(ctx)

	if len(acked) > 0 {
		// Partial success still counts as a sync for the indicator.
		r.state.SetLastSyncedAt(ctx, r.now())
	}

	if transientFailures > 0 {
		r.nextAttempt = r.now().Add(r.backoff)
		r.backoff *= 2
		if r.backoff > maxBackoff {
			r.backoff = maxBackoff
		}
	} else {
		r.backoff = initialBackoff
		r.nextAttempt = time.Time{}
	}

	r.log.Info("drain finished",
		zap.Int("sent", len(acked)),
		zap.Int("retained", transientFailures),
	)
	return firstErr
}

// dispatch replays one pending action. The kind switch is exhaustive
// over domain.ActionKind; an unknown kind (from a newer app version's
// persisted queue) is dropped as permanent.
func (r *Reconciler) dispatch(ctx context.Context, a domain.PendingAction) error {
	switch a.Kind {
	case domain.ActionCreateReward:
		var ev domain.RewardEvent
		if err := decode(a, &ev); err != nil {
			return err
		}
		return r.remote.CreateReward(ctx, ev)

	case domain.ActionCreateLog:
		var l domain.ActivityLog
		if err := decode(a, &l); err != nil {
			return err
		}
		return r.remote.CreateLog(ctx, l)

	case domain.ActionUpsertMember:
		var m domain.Member
		if err := decode(a, &m); err != nil {
			return err
		}
		_, err := r.remote.UpsertMember(ctx, m)
		return err

	case domain.ActionUpdateFamily:
		var f domain.Family
		if err := decode(a, &f); err != nil {
			return err
		}
		_, err := r.remote.UpdateFamily(ctx, f)
		return err

	case domain.ActionCreatePreparation:
		var p domain.Preparation
		if err := decode(a, &p); err != nil {
			return err
		}
		return r.remote.CreatePreparation(ctx, p)

	case domain.ActionCreateConnection:
		var conn domain.Connection
		if err := decode(a, &conn); err != nil {
			return err
		}
		return r.remote.CreateConnection(ctx, conn)

	default:
		return &remote.Error{
			Op:        "dispatch",
			Message:   "unknown pending action kind " + string(a.Kind),
			Permanent: true,
		}
	}
}

// SyncNow is the explicit user-facing "sync now" affordance: a pull
// followed by a drain, serialized under one gate acquisition.
func (r *Reconciler) SyncNow(ctx context.Context) error {
	if !r.begin() {
		return ErrSyncInProgress
	}
	defer r.end()

	if err := r.pullLocked(ctx); err != nil {
		r.log.Warn("sync now: pull failed", zap.Error(err))
	}
	return r.drainLocked(ctx)
}

// HandleConnectivity records a connectivity transition and drains the
// queue when the transition is to online.
func (r *Reconciler) HandleConnectivity(ctx context.Context, online bool) {
	r.state.SetOnline(online)
	if !online {
		return
	}
	if err := r.Drain(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
		r.log.Debug("drain after reconnect failed", zap.Error(err))
	}
}

// Run performs a startup pull, then pulls and drains on the given
// interval until the context is cancelled. This is the periodic
// "refresh connectivity-dependent data" timer.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	if err := r.Pull(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
		r.log.Warn("startup pull failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("syncer stopping: context cancelled")
			return ctx.Err()

		case <-ticker.C:
			if err := r.Pull(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
				r.log.Debug("periodic pull failed", zap.Error(err))
			}
			if err := r.Drain(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
				r.log.Debug("periodic drain failed", zap.Error(err))
			}
		}
	}
}

func decode(a domain.PendingAction, out any) error {
	if err := unmarshalPayload(a.Payload, out); err != nil {
		return &remote.Error{
			Op:        "dispatch " + string(a.Kind),
			Message:   err.Error(),
			Permanent: true, // a payload that never parses never will
		}
	}
	return nil
}
