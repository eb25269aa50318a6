// Package state implements the local state container: the single owned,
// mutable snapshot of the family's tracking data that the rendering
// layer observes.
//
// All mutation flows through the container's action methods. Every
// action applies its record locally and synchronously before any network
// call - the optimistic apply that keeps the app usable offline - then
// either dispatches the mutation to the remote service or queues it for
// a later drain pass. Derived numbers (totals, thresholds, statistics)
// are recomputed on read by the aggregate package; the append-only event
// log held here is the only ground truth.
//
// The container never panics or returns errors into UI event handlers:
// missing preconditions make an action a silent no-op, and offline is an
// expected state, not an error.
package state
