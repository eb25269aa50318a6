package state

import (
	"time"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/aggregate"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/dayclock"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

// Getters are pure reads: they run the aggregate functions against
// current state and never mutate. Derived values are recomputed on every
// call so they can never go stale against the event log.

// Family returns the loaded family, if any.
func (c *Container) Family() (domain.Family, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.family == nil {
		return domain.Family{}, false
	}
	return *c.family, true
}

// Members returns a copy of the member list.
func (c *Container) Members() []domain.Member {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Member(nil), c.members...)
}

// ActiveMember resolves the active-member selector. It is either a
// member of the current family or absent - never a dangling reference.
func (c *Container) ActiveMember() (domain.Member, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.members {
		if m.ID == c.activeMemberID {
			return m, true
		}
	}
	return domain.Member{}, false
}

// TotalStars returns the family-wide lifetime star total.
func (c *Container) TotalStars() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.TotalStars(c.rewards)
}

// MemberStars returns one member's lifetime star total.
func (c *Container) MemberStars(memberID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.MemberStars(c.rewards, memberID)
}

// ScaledThresholds returns the milestone table for the current family
// composition. Recomputed on every call - membership changes must never
// see a stale table.
func (c *Container) ScaledThresholds() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.ScaledThresholds(c.members)
}

// UnlockedTiers returns how many constellations the family has unlocked.
func (c *Container) UnlockedTiers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.UnlockedTiers(
		aggregate.TotalStars(c.rewards),
		aggregate.ScaledThresholds(c.members),
	)
}

// MemberMonthlyStats returns the period summary for one member.
func (c *Container) MemberMonthlyStats(memberID string) aggregate.MemberStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.MemberMonthlyStats(c.logs, c.rewards, c.members, memberID)
}

// TodayRewards projects the reward events of the current logical day.
func (c *Container) TodayRewards() []domain.RewardEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.EventsOnDay(c.rewards, c.clock.Day())
}

// TodayLogs projects the activity logs of the current logical day.
func (c *Container) TodayLogs() []domain.ActivityLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.LogsOnDay(c.logs, c.clock.Day())
}

// HasCompletedToday reports whether the active member already earned a
// reward for src on the current logical day. UI code must consult this
// before calling RecordReward - the container does not self-deduplicate.
func (c *Container) HasCompletedToday(src domain.Source) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.HasCompleted(c.rewards, c.activeMemberID, src, c.clock.Day())
}

// HasCompleted is the duplicate-prevention query for an arbitrary
// (member, source, logical day) tuple.
func (c *Container) HasCompleted(memberID string, src domain.Source, day int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return aggregate.HasCompleted(c.rewards, memberID, src, day)
}

// Preparations returns a copy of the preparation records.
func (c *Container) Preparations() []domain.Preparation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Preparation(nil), c.preparations...)
}

// Connections returns a copy of the connection records.
func (c *Container) Connections() []domain.Connection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Connection(nil), c.connections...)
}

// Streak returns the remote-computed streak for a member, if cached.
func (c *Container) Streak(memberID string) (domain.StreakRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.streaks[memberID]
	return st, ok
}

// Day returns the current logical day from the single clock source.
func (c *Container) Day() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock.Day()
}

// Phase returns the current period phase.
func (c *Container) Phase() dayclock.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock.Phase()
}

// Online reports the connectivity flag.
func (c *Container) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// LastSyncedAt returns the timestamp of the last successful drain.
func (c *Container) LastSyncedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSyncedAt
}

// PendingCount returns the number of queued unsent mutations, for the
// non-blocking "pending changes" indicator.
func (c *Container) PendingCount() int {
	return c.pending.Len()
}

// Locked reports whether the parent lock is engaged.
func (c *Container) Locked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locked
}
