// Package remote defines the client interface to the authoritative
// server and its HTTP implementation. The server is an external
// collaborator: per-entity create/update operations keyed by family, a
// fetch-all operation returning the full snapshot for the pull path, and
// a streak endpoint whose recurrence rule lives server-side.
package remote

import (
	"context"
	"errors"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

// ErrNotFound is returned by FetchAll when no remote family exists
// (the user has not finished onboarding).
var ErrNotFound = errors.New("remote: not found")

// Bundle is the full remote snapshot returned by the fetch-all
// operation. The pull path replaces local collections with it wholesale.
type Bundle struct {
	Family       domain.Family        `json:"family"`
	Members      []domain.Member      `json:"members"`
	Rewards      []domain.RewardEvent `json:"rewards"`
	Logs         []domain.ActivityLog `json:"logs"`
	Preparations []domain.Preparation `json:"preparations"`
	Connections  []domain.Connection  `json:"connections"`
}

// Client is the remote API surface the engine depends on.
//
// Append-only event types (rewards, logs, preparations, connections) are
// fire-and-forget creates: the server may assign its own IDs, and local
// IDs are never replaced because these records are never referenced by ID
// from elsewhere. Mutable entities (Member, Family) return the server's
// canonical record, which replaces the local one on success.
type Client interface {
	CreateReward(ctx context.Context, e domain.RewardEvent) error
	CreateLog(ctx context.Context, l domain.ActivityLog) error
	CreatePreparation(ctx context.Context, p domain.Preparation) error
	CreateConnection(ctx context.Context, c domain.Connection) error

	UpsertMember(ctx context.Context, m domain.Member) (domain.Member, error)
	UpdateFamily(ctx context.Context, f domain.Family) (domain.Family, error)

	FetchAll(ctx context.Context, familyID string) (*Bundle, error)
	FetchStreaks(ctx context.Context, familyID string) ([]domain.StreakRecord, error)
}
