// Package aggregate computes every derived number in the engine - star
// totals, composition-scaled milestone thresholds, unlocked tiers,
// per-member period statistics, and the duplicate-prevention query.
//
// All functions are pure and deterministic over the append-only event
// log. Callers may cache results, but a cached value is never ground
// truth: any change to the underlying log invalidates it and the
// functions here must be re-run.
package aggregate
