package domain

import (
	"encoding/json"
	"time"
)

// ActionKind names the remote operation a pending action replays.
type ActionKind string

const (
	ActionCreateReward      ActionKind = "create_reward"
	ActionCreateLog         ActionKind = "create_log"
	ActionUpsertMember      ActionKind = "upsert_member"
	ActionUpdateFamily      ActionKind = "update_family"
	ActionCreatePreparation ActionKind = "create_preparation"
	ActionCreateConnection  ActionKind = "create_connection"
)

// PendingAction is a queued, not-yet-acknowledged mutation. Actions are
// processed in creation order and removed only after the remote operation
// they represent succeeds; a transient failure leaves the action queued in
// its original position.
type PendingAction struct {
	ID        string          `json:"id"`
	Kind      ActionKind      `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
