package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

// SavePendingActions replaces the persisted queue with the given actions
// in order. Replace-wholesale keeps the table an exact mirror of the
// in-memory queue; position preserves FIFO order across restarts.
func (s *Store) SavePendingActions(ctx context.Context, actions []domain.PendingAction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save pending actions: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_actions`); err != nil {
		return fmt.Errorf("save pending actions: clear: %w", err)
	}

	for i, a := range actions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pending_actions (id, kind, payload, created_at, position)
			VALUES (?, ?, ?, ?, ?)
		`, a.ID, string(a.Kind), string(a.Payload), a.CreatedAt.UTC().Format(time.RFC3339Nano), i)
		if err != nil {
			return fmt.Errorf("save pending actions: insert %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save pending actions: commit: %w", err)
	}

	return nil
}

// LoadPendingActions reads the persisted queue in FIFO order.
func (s *Store) LoadPendingActions(ctx context.Context) ([]domain.PendingAction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, payload, created_at
		FROM pending_actions
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load pending actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.PendingAction
	for rows.Next() {
		var (
			a         domain.PendingAction
			kind      string
			payload   string
			createdAt string
		)
		if err := rows.Scan(&a.ID, &kind, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("load pending actions: scan: %w", err)
		}
		a.Kind = domain.ActionKind(kind)
		a.Payload = []byte(payload)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			a.CreatedAt = t
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load pending actions: rows: %w", err)
	}

	return actions, nil
}
