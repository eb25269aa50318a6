package syncer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/queue"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/remote"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/state"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/store"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/testutil"
)

func testFamily() *domain.Family {
	return &domain.Family{
		ID:        "fam-1",
		Name:      "Al-Noor",
		StartDate: time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC),
		Days:      30,
	}
}

func restoreSnapshot() store.Snapshot {
	return store.Snapshot{
		Family: testFamily(),
		Members: []domain.Member{
			{ID: "m1", FamilyID: "fam-1", Name: "Yusuf", Type: domain.MemberTypeKid},
		},
		ActiveMemberID: "m1",
		TestPhase:      "during",
		TestDay:        5,
	}
}

// newTestReconciler wires a container, shared pending queue, and
// reconciler around the given remote, with a controllable clock.
func newTestReconciler(t *testing.T, rc remote.Client) (*Reconciler, *state.Container, *queue.Queue) {
	t.Helper()

	pending := queue.New()
	c := state.New(state.Params{
		Log:       zap.NewNop(),
		Remote:    rc,
		Persister: testutil.NewMemPersister(),
		Pending:   pending,
	})
	c.Restore(restoreSnapshot())
	c.SetOnline(false)

	r := New(zap.NewNop(), c, pending, rc)
	r.now = func() time.Time { return time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC) }
	return r, c, pending
}

// queueThree enqueues a reward, a log, and a member upsert while offline.
func queueThree(ctx context.Context, c *state.Container) {
	c.RecordReward(ctx, domain.SourceFasting)
	c.RecordQuran(ctx, 15, "Al-Fatiha")
	c.UpsertMember(ctx, domain.Member{ID: "m1", Name: "Yusuf", Type: domain.MemberTypeKid})
}

func TestDrain_SendsQueuedActionsInOrder(t *testing.T) {
	fr := testutil.NewFakeRemote()
	r, c, pending := newTestReconciler(t, fr)
	ctx := context.Background()

	queueThree(ctx, c)
	require.Equal(t, 3, pending.Len())

	c.SetOnline(true)
	require.NoError(t, r.Drain(ctx))

	assert.Equal(t, []string{"create_reward", "create_log", "upsert_member"}, fr.Ops())
	assert.Zero(t, pending.Len())
	assert.False(t, c.LastSyncedAt().IsZero())
}

// flakyRemote fails a single operation kind so a drain pass succeeds
// partially.
type flakyRemote struct {
	*testutil.FakeRemote
	logErr error
}

func (f *flakyRemote) CreateLog(ctx context.Context, l domain.ActivityLog) error {
	if f.logErr != nil {
		return f.logErr
	}
	return f.FakeRemote.CreateLog(ctx, l)
}

func TestDrain_RetainsTransientFailuresOnly(t *testing.T) {
	fr := &flakyRemote{
		FakeRemote: testutil.NewFakeRemote(),
		logErr:     &remote.Error{Op: "create log", Message: "timeout"},
	}
	r, c, pending := newTestReconciler(t, fr)
	ctx := context.Background()

	queueThree(ctx, c)
	c.SetOnline(true)
	err := r.Drain(ctx)
	require.Error(t, err)

	// Exactly the failed action survives; partial success still stamps
	// the sync time.
	snap := pending.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, domain.ActionCreateLog, snap[0].Kind)
	assert.False(t, c.LastSyncedAt().IsZero())
}

func TestDrain_DropsPermanentRejections(t *testing.T) {
	fr := &flakyRemote{
		FakeRemote: testutil.NewFakeRemote(),
		logErr:     &remote.Error{Op: "create log", Status: 422, Message: "invalid", Permanent: true},
	}
	r, c, pending := newTestReconciler(t, fr)
	ctx := context.Background()

	queueThree(ctx, c)
	c.SetOnline(true)
	require.NoError(t, r.Drain(ctx))

	assert.Zero(t, pending.Len())
}

func TestDrain_BacksOffAfterTransientFailure(t *testing.T) {
	fr := testutil.NewFakeRemote()
	fr.Err = &remote.Error{Op: "create reward", Message: "connection refused"}
	r, c, pending := newTestReconciler(t, fr)
	ctx := context.Background()

	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	c.RecordReward(ctx, domain.SourceFasting)
	c.SetOnline(true)
	require.Error(t, r.Drain(ctx))
	require.Equal(t, 1, pending.Len())

	// Within the backoff window a drain is a silent no-op.
	fr.Err = nil
	require.NoError(t, r.Drain(ctx))
	assert.Empty(t, fr.Ops())
	assert.Equal(t, 1, pending.Len())

	// Past the window the retained action goes through.
	now = now.Add(5 * time.Second)
	require.NoError(t, r.Drain(ctx))
	assert.Equal(t, []string{"create_reward"}, fr.Ops())
	assert.Zero(t, pending.Len())
}

func TestDrain_UnknownKindDroppedAsPermanent(t *testing.T) {
	fr := testutil.NewFakeRemote()
	r, _, pending := newTestReconciler(t, fr)
	ctx := context.Background()

	pending.Enqueue(domain.PendingAction{
		ID:      "a1",
		Kind:    domain.ActionKind("teleport_member"),
		Payload: []byte(`{}`),
	})

	require.NoError(t, r.Drain(ctx))
	assert.Zero(t, pending.Len())
	assert.Empty(t, fr.Ops())
}

func TestPull_ReplacesStateAndFetchesStreaks(t *testing.T) {
	fr := testutil.NewFakeRemote()
	fr.Bundle = &remote.Bundle{
		Family: *testFamily(),
		Members: []domain.Member{
			{ID: "m1", FamilyID: "fam-1", Name: "Yusuf", Type: domain.MemberTypeKid},
			{ID: "m2", FamilyID: "fam-1", Name: "Amina", Type: domain.MemberTypeParent},
		},
		Rewards: []domain.RewardEvent{
			{ID: "srv-r1", MemberID: "m2", Source: domain.SourceFasting, Day: 3, Stars: 3},
		},
	}
	fr.Streaks = []domain.StreakRecord{{MemberID: "m1", Current: 2, Longest: 5}}
	r, c, _ := newTestReconciler(t, fr)

	require.NoError(t, r.Pull(context.Background()))

	assert.Len(t, c.Members(), 2)
	assert.Equal(t, 3, c.TotalStars())

	st, ok := c.Streak("m1")
	require.True(t, ok)
	assert.Equal(t, 2, st.Current)
}

func TestPull_NoRemoteFamilyClearsLocalState(t *testing.T) {
	fr := testutil.NewFakeRemote() // Bundle nil: FetchAll returns ErrNotFound
	r, c, _ := newTestReconciler(t, fr)

	require.NoError(t, r.Pull(context.Background()))

	_, ok := c.Family()
	assert.False(t, ok)
	assert.Empty(t, c.Members())
}

func TestSyncNow_PullsThenDrains(t *testing.T) {
	fr := testutil.NewFakeRemote()
	fr.Bundle = &remote.Bundle{
		Family: *testFamily(),
		Members: []domain.Member{
			{ID: "m1", FamilyID: "fam-1", Name: "Yusuf", Type: domain.MemberTypeKid},
		},
	}
	r, c, pending := newTestReconciler(t, fr)
	ctx := context.Background()

	c.RecordReward(ctx, domain.SourceStory)
	c.SetOnline(true)
	require.NoError(t, r.SyncNow(ctx))

	ops := fr.Ops()
	require.GreaterOrEqual(t, len(ops), 3)
	assert.Equal(t, "fetch_all", ops[0])
	assert.Equal(t, "fetch_streaks", ops[1])
	assert.Equal(t, "create_reward", ops[len(ops)-1])
	assert.Zero(t, pending.Len())
}

func TestGate_RejectsConcurrentSync(t *testing.T) {
	r, _, _ := newTestReconciler(t, testutil.NewFakeRemote())

	require.True(t, r.begin())
	defer r.end()

	assert.ErrorIs(t, r.Pull(context.Background()), ErrSyncInProgress)
	assert.ErrorIs(t, r.Drain(context.Background()), ErrSyncInProgress)
	assert.ErrorIs(t, r.SyncNow(context.Background()), ErrSyncInProgress)
	assert.True(t, r.Syncing())
}

func TestHandleConnectivity_DrainsOnReconnect(t *testing.T) {
	fr := testutil.NewFakeRemote()
	r, c, pending := newTestReconciler(t, fr)
	ctx := context.Background()

	c.RecordReward(ctx, domain.SourceKindness)
	require.Equal(t, 1, pending.Len())

	r.HandleConnectivity(ctx, false)
	assert.False(t, c.Online())
	assert.Equal(t, 1, pending.Len())

	r.HandleConnectivity(ctx, true)
	assert.True(t, c.Online())
	assert.Zero(t, pending.Len())
	assert.Equal(t, []string{"create_reward"}, fr.Ops())
}

// Actions queued offline must survive a full process restart and drain in
// their original order afterwards.
func TestDrain_QueueSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "engine.db")

	// First process: record three mutations offline, then "crash".
	s1, err := store.Open(dbPath)
	require.NoError(t, err)

	pending1 := queue.New()
	c1 := state.New(state.Params{
		Log:       zap.NewNop(),
		Persister: s1,
		Pending:   pending1,
	})
	c1.Restore(restoreSnapshot())
	c1.SetOnline(false)
	queueThree(ctx, c1)
	require.NoError(t, s1.Close())

	// Second process: restore from disk and drain against a live remote.
	s2, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	snap, found, err := s2.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, found)

	actions, err := s2.LoadPendingActions(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 3)

	fr := testutil.NewFakeRemote()
	pending2 := queue.NewFrom(actions)
	c2 := state.New(state.Params{
		Log:       zap.NewNop(),
		Remote:    fr,
		Persister: s2,
		Pending:   pending2,
	})
	c2.Restore(snap)
	c2.SetOnline(true)

	r := New(zap.NewNop(), c2, pending2, fr)
	require.NoError(t, r.Drain(ctx))

	assert.Equal(t, []string{"create_reward", "create_log", "upsert_member"}, fr.Ops())
	assert.Zero(t, pending2.Len())

	// The drained queue is also durably empty.
	left, err := s2.LoadPendingActions(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)
}
