package state

import (
	"context"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/remote"
)

// ApplyBundle installs an authoritative remote snapshot. This is a full
// replace, never a field-by-field merge: last-writer-wins at the
// snapshot level is the accepted simplification for a multi-writer
// remote store.
//
// The locally selected active member is preserved when it still exists
// in the new data; otherwise the selector falls back to the first
// remaining member, or clears.
func (c *Container) ApplyBundle(ctx context.Context, b *remote.Bundle) {
	if b == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fam := b.Family
	c.family = &fam
	c.members = append([]domain.Member(nil), b.Members...)
	c.rewards = append([]domain.RewardEvent(nil), b.Rewards...)
	c.logs = append([]domain.ActivityLog(nil), b.Logs...)
	c.preparations = append([]domain.Preparation(nil), b.Preparations...)
	c.connections = append([]domain.Connection(nil), b.Connections...)

	c.reselectActiveMemberLocked()
	c.resetClockIfNeededLocked()
	c.saveLocked(ctx)
}

// Clear wipes all family/member state. Models "user has not finished
// onboarding" (no remote family) and explicit logout.
func (c *Container) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.family = nil
	c.members = nil
	c.activeMemberID = ""
	c.rewards = nil
	c.logs = nil
	c.preparations = nil
	c.connections = nil
	c.streaks = map[string]domain.StreakRecord{}
	c.locked = false
	c.lockPIN = ""

	c.resetClockIfNeededLocked()
	c.saveLocked(ctx)
}

// SetStreaks replaces the cached remote-computed streak records.
func (c *Container) SetStreaks(ctx context.Context, streaks []domain.StreakRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.streaks = map[string]domain.StreakRecord{}
	for _, st := range streaks {
		c.streaks[st.MemberID] = st
	}
	c.saveLocked(ctx)
}

// SetActiveMember selects the active profile. Selecting an ID outside
// the current family is a no-op; the empty string clears the selector.
func (c *Container) SetActiveMember(ctx context.Context, memberID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if memberID == "" {
		c.activeMemberID = ""
		c.saveLocked(ctx)
		return
	}

	for _, m := range c.members {
		if m.ID == memberID {
			c.activeMemberID = memberID
			c.saveLocked(ctx)
			return
		}
	}
}

// SetLock engages the parent lock with the given PIN.
func (c *Container) SetLock(ctx context.Context, pin string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locked = true
	c.lockPIN = pin
	c.saveLocked(ctx)
}

// Unlock disengages the parent lock if the PIN matches.
func (c *Container) Unlock(ctx context.Context, pin string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockPIN != pin {
		return false
	}
	c.locked = false
	c.saveLocked(ctx)
	return true
}

// reselectActiveMemberLocked keeps the selector valid after membership
// changed: preserve when possible, else first member, else empty.
func (c *Container) reselectActiveMemberLocked() {
	if c.activeMemberID != "" {
		for _, m := range c.members {
			if m.ID == c.activeMemberID {
				return
			}
		}
	}
	if len(c.members) > 0 {
		c.activeMemberID = c.members[0].ID
		return
	}
	c.activeMemberID = ""
}
