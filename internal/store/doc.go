// Package store is the persistence adapter: durable local storage that
// survives process restarts.
//
// It holds two things in a single SQLite database: the versioned
// persisted snapshot of the state container (family, members, today's
// events, lock state, preparation and connection records) and the
// pending-action queue. The snapshot is a JSON document validated against
// an embedded CUE schema and upgraded in place by an idempotent migration
// when older shapes are loaded.
package store
