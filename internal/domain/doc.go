// Package domain defines the data model for the tracking engine: the
// Family and its Members, the append-only event log (reward events and
// activity logs), queued offline mutations, and the remote-owned streak
// record.
//
// Event records are immutable facts. Nothing in this package mutates a
// record after construction; derived numbers (totals, thresholds,
// statistics) live in the aggregate package and are recomputed from these
// records on demand.
package domain
