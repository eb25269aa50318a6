package queue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

func action(id string) domain.PendingAction {
	return domain.PendingAction{ID: id, Kind: domain.ActionCreateReward, Payload: []byte(`{}`)}
}

func TestQueue_FIFOOrder(t *testing.T) {
	q := New()
	for i := 1; i <= 5; i++ {
		q.Enqueue(action(fmt.Sprintf("a%d", i)))
	}

	snap := q.Snapshot()
	require.Len(t, snap, 5)
	for i, a := range snap {
		assert.Equal(t, fmt.Sprintf("a%d", i+1), a.ID)
	}
}

func TestQueue_SnapshotIsCopy(t *testing.T) {
	q := New()
	q.Enqueue(action("a1"))

	snap := q.Snapshot()
	snap[0].ID = "mutated"

	assert.Equal(t, "a1", q.Snapshot()[0].ID)
}

func TestQueue_AckRemovesOnlyAcknowledged(t *testing.T) {
	q := New()
	q.Enqueue(action("a1"))
	q.Enqueue(action("a2"))
	q.Enqueue(action("a3"))

	q.Ack(map[string]bool{"a1": true, "a3": true})

	snap := q.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "a2", snap[0].ID)
}

func TestQueue_AckPreservesMidDrainEnqueues(t *testing.T) {
	q := New()
	q.Enqueue(action("a1"))
	q.Enqueue(action("a2"))

	// Drain snapshots, then a new action arrives before the ack.
	drained := q.Snapshot()
	q.Enqueue(action("a3"))

	acked := map[string]bool{}
	for _, a := range drained {
		acked[a.ID] = true
	}
	q.Ack(acked)

	snap := q.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "a3", snap[0].ID)
}

func TestQueue_NewFromPreservesOrder(t *testing.T) {
	q := NewFrom([]domain.PendingAction{action("x"), action("y")})
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, "x", q.Snapshot()[0].ID)
}

func TestQueue_AckEmptyIsNoop(t *testing.T) {
	q := New()
	q.Enqueue(action("a1"))
	q.Ack(nil)
	assert.Equal(t, 1, q.Len())
}
