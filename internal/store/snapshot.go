package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

// SnapshotVersion is the current persisted-snapshot shape.
//
// Version history:
// 1 - family, members, active member, today-scoped event collections
// 2 - added lock/PIN state and last-synced timestamp
// 3 - added preparations, connections, streaks, preview-mode fields
const SnapshotVersion = 3

// Snapshot is the JSON-serializable subset of the state container that
// survives restarts. Only today-scoped event collections are persisted -
// the full all-time history is re-fetched on the next pull - to bound
// local storage size.
type Snapshot struct {
	Version        int                   `json:"version"`
	Family         *domain.Family        `json:"family"`
	Members        []domain.Member       `json:"members"`
	ActiveMemberID string                `json:"active_member_id"`
	Locked         bool                  `json:"locked"`
	LockPIN        string                `json:"lock_pin"`
	TodayRewards   []domain.RewardEvent  `json:"today_rewards"`
	TodayLogs      []domain.ActivityLog  `json:"today_logs"`
	Preparations   []domain.Preparation  `json:"preparations"`
	Connections    []domain.Connection   `json:"connections"`
	Streaks        []domain.StreakRecord `json:"streaks"`
	TestPhase      string                `json:"test_phase"`
	TestDay        int                   `json:"test_day"`
	LastSyncedAt   time.Time             `json:"last_synced_at"`
}

// SaveSnapshot serializes and upserts the single snapshot row.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	snap.Version = SnapshotVersion
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("save snapshot: marshal: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshot (id, version, body, saved_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			body = excluded.body,
			saved_at = excluded.saved_at
	`, SnapshotVersion, string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot reads and migrates the persisted snapshot. Returns
// found=false when no snapshot has been saved yet. A malformed or
// outdated body is repaired by Migrate, never a hard failure; err is
// reserved for database errors.
func (s *Store) LoadSnapshot(ctx context.Context) (snap Snapshot, found bool, err error) {
	var body string
	row := s.db.QueryRowContext(ctx, `SELECT body FROM snapshot WHERE id = 1`)
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return DefaultSnapshot(), false, nil
		}
		return Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	return Migrate([]byte(body)), true, nil
}

// DefaultSnapshot returns an empty snapshot at the current version with
// all collections initialized.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Version:      SnapshotVersion,
		Members:      []domain.Member{},
		TodayRewards: []domain.RewardEvent{},
		TodayLogs:    []domain.ActivityLog{},
		Preparations: []domain.Preparation{},
		Connections:  []domain.Connection{},
		Streaks:      []domain.StreakRecord{},
	}
}

// Migrate upgrades a persisted snapshot body to the current shape.
// Fields introduced after the body was written are filled with safe
// defaults (empty collections, false/zero flags). Damage is repaired at
// the smallest scope that still decodes: a collection entry that fails
// (an unknown activity source written by a newer app version, a
// mis-typed field) drops that entry alone - the snapshot is never
// discarded wholesale. Only input that is not JSON at all degrades to
// DefaultSnapshot.
//
// Migrate is idempotent: migrating an already-current body is a no-op.
func Migrate(body []byte) Snapshot {
	if validateSnapshotJSON(body) == nil {
		snap := DefaultSnapshot()
		if err := json.Unmarshal(body, &snap); err == nil {
			return normalizeSnapshot(snap)
		}
	}
	return normalizeSnapshot(repairSnapshot(body))
}

// rawSnapshot holds the entity and collection fields undecoded so the
// repair path can decode them independently.
type rawSnapshot struct {
	Version        int               `json:"version"`
	Family         json.RawMessage   `json:"family"`
	Members        []json.RawMessage `json:"members"`
	ActiveMemberID string            `json:"active_member_id"`
	Locked         bool              `json:"locked"`
	LockPIN        string            `json:"lock_pin"`
	TodayRewards   []json.RawMessage `json:"today_rewards"`
	TodayLogs      []json.RawMessage `json:"today_logs"`
	Preparations   []json.RawMessage `json:"preparations"`
	Connections    []json.RawMessage `json:"connections"`
	Streaks        []json.RawMessage `json:"streaks"`
	TestPhase      string            `json:"test_phase"`
	TestDay        int               `json:"test_day"`
	LastSyncedAt   json.RawMessage   `json:"last_synced_at"`
}

// repairSnapshot rebuilds a snapshot from a body the strict path could
// not take: top-level fields that decode are kept, collection entries
// are decoded one by one, and whatever still fails keeps its default.
func repairSnapshot(body []byte) Snapshot {
	snap := DefaultSnapshot()
	if !json.Valid(body) {
		return snap
	}

	// Mis-typed fields error but do not abort the decode; the remaining
	// fields are still populated.
	var raw rawSnapshot
	_ = json.Unmarshal(body, &raw)

	if len(raw.Family) > 0 && string(raw.Family) != "null" {
		var fam domain.Family
		if err := json.Unmarshal(raw.Family, &fam); err == nil {
			snap.Family = &fam
		}
	}
	snap.ActiveMemberID = raw.ActiveMemberID
	snap.Locked = raw.Locked
	snap.LockPIN = raw.LockPIN
	snap.TestPhase = raw.TestPhase
	snap.TestDay = raw.TestDay
	if len(raw.LastSyncedAt) > 0 {
		_ = json.Unmarshal(raw.LastSyncedAt, &snap.LastSyncedAt)
	}

	snap.Members = decodeEntries[domain.Member](raw.Members)
	snap.TodayRewards = decodeEntries[domain.RewardEvent](raw.TodayRewards)
	snap.TodayLogs = decodeEntries[domain.ActivityLog](raw.TodayLogs)
	snap.Preparations = decodeEntries[domain.Preparation](raw.Preparations)
	snap.Connections = decodeEntries[domain.Connection](raw.Connections)
	snap.Streaks = decodeEntries[domain.StreakRecord](raw.Streaks)
	return snap
}

// decodeEntries decodes each entry independently, dropping the ones
// that fail.
func decodeEntries[T any](raws []json.RawMessage) []T {
	out := make([]T, 0, len(raws))
	for _, r := range raws {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func normalizeSnapshot(snap Snapshot) Snapshot {
	snap.Version = SnapshotVersion
	if snap.Members == nil {
		snap.Members = []domain.Member{}
	}
	if snap.TodayRewards == nil {
		snap.TodayRewards = []domain.RewardEvent{}
	}
	if snap.TodayLogs == nil {
		snap.TodayLogs = []domain.ActivityLog{}
	}
	if snap.Preparations == nil {
		snap.Preparations = []domain.Preparation{}
	}
	if snap.Connections == nil {
		snap.Connections = []domain.Connection{}
	}
	if snap.Streaks == nil {
		snap.Streaks = []domain.StreakRecord{}
	}

	// An active member that no longer resolves within the member list is
	// stale state from a pre-v3 bug; drop the selector, keep the rest.
	if snap.ActiveMemberID != "" {
		ok := false
		for _, m := range snap.Members {
			if m.ID == snap.ActiveMemberID {
				ok = true
				break
			}
		}
		if !ok {
			snap.ActiveMemberID = ""
		}
	}

	return snap
}
