package state

import (
	"context"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/dayclock"
)

// Preview mode substitutes the clock: every date/day computation in the
// engine consults the container's single clock, so swapping it here is
// all that is needed to simulate any day of the tracked period. The
// override persists across restarts until cleared.

// SetPreview pins the engine to a fixed phase and logical day.
func (c *Container) SetPreview(ctx context.Context, phase dayclock.Phase, day int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock = dayclock.NewFixedClock(day, phase)
	c.preview = true
	c.saveLocked(ctx)
}

// ClearPreview restores the wall clock derived from the family start
// date.
func (c *Container) ClearPreview(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetClockLocked()
	c.saveLocked(ctx)
}

// Previewing reports whether a preview override is active.
func (c *Container) Previewing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

// Clock returns the container's current clock. Consumers that need the
// logical day must go through this single source of truth.
func (c *Container) Clock() dayclock.Clock {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock
}
