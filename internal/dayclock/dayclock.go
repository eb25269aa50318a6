// Package dayclock answers "what logical day of the tracked period is
// it" for every date-sensitive computation in the engine.
//
// There is exactly one source of truth: a Clock injected at construction
// time. Production code uses WallClock, derived from the family start
// date. Preview/test mode swaps in a FixedClock so any day of the period
// can be simulated without waiting for real calendar time.
package dayclock

import "time"

// Phase locates the clock relative to the tracked period.
type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseDuring Phase = "during"
	PhaseAfter  Phase = "after"
)

// Clock is the single "current logical day" interface. Day is a 1-based
// index into the tracked period; 0 means the period has not started.
type Clock interface {
	Day() int
	Phase() Phase
	Now() time.Time
}

// WallClock derives the logical day from the wall clock and the period
// start date. Day arithmetic is done on calendar dates, not raw
// durations, so a DST transition never shifts the day boundary.
type WallClock struct {
	start time.Time
	days  int
	now   func() time.Time
}

// NewWallClock creates a clock for a period of length days starting at
// start. The time component of start is ignored.
func NewWallClock(start time.Time, days int) *WallClock {
	return &WallClock{start: start, days: days, now: time.Now}
}

// NewWallClockAt is NewWallClock with an injectable time source, for
// tests that pin "now".
func NewWallClockAt(start time.Time, days int, now func() time.Time) *WallClock {
	return &WallClock{start: start, days: days, now: now}
}

// Day returns the 1-based logical day, 0 before the period starts, and
// values beyond the period length after it ends.
func (c *WallClock) Day() int {
	today := dateOnly(c.now())
	start := dateOnly(c.start)
	d := int(today.Sub(start).Hours()/24) + 1
	if d < 1 {
		return 0
	}
	return d
}

// Phase reports where the wall clock sits relative to the period.
func (c *WallClock) Phase() Phase {
	d := c.Day()
	switch {
	case d < 1:
		return PhaseBefore
	case d > c.days:
		return PhaseAfter
	default:
		return PhaseDuring
	}
}

// Now returns the current wall-clock time.
func (c *WallClock) Now() time.Time {
	return c.now()
}

// FixedClock returns a fixed logical day and phase. Used for
// preview/test mode and deterministic tests.
type FixedClock struct {
	day   int
	phase Phase
	now   time.Time
}

// NewFixedClock pins the clock to the given day and phase.
func NewFixedClock(day int, phase Phase) *FixedClock {
	return &FixedClock{day: day, phase: phase, now: time.Now()}
}

// NewFixedClockAt additionally pins Now, for golden-stable tests.
func NewFixedClockAt(day int, phase Phase, now time.Time) *FixedClock {
	return &FixedClock{day: day, phase: phase, now: now}
}

func (c *FixedClock) Day() int       { return c.day }
func (c *FixedClock) Phase() Phase   { return c.phase }
func (c *FixedClock) Now() time.Time { return c.now }

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
