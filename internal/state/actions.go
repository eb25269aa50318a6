package state

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/aggregate"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/remote"
)

// Every action method follows the same contract:
//
//  1. Missing preconditions (no family, no active member) make the call
//     a silent no-op. The rendering layer never wraps dispatches in
//     error handling.
//  2. The new immutable record gets a locally generated ID and the
//     current timestamp.
//  3. The record is appended to the local log synchronously, before any
//     network I/O. This is the load-bearing optimistic-apply guarantee.
//  4. Online: attempt the remote write. Offline, or on a transient
//     remote failure: enqueue a pending action that replays the write on
//     the next drain. Neither path surfaces an error to the caller.
//
// Duplicate prevention is the caller's job: check HasCompletedToday
// before calling RecordReward. The container does not self-deduplicate.

// RecordReward grants a star event to the active member for the given
// activity source on the current logical day. Raises at most one
// milestone signal if the family total crossed any scaled threshold.
func (c *Container) RecordReward(ctx context.Context, src domain.Source) {
	c.mu.Lock()

	if c.family == nil || c.activeMemberID == "" || !src.Valid() {
		c.mu.Unlock()
		return
	}

	now := c.clock.Now()
	ev := domain.RewardEvent{
		ID:         c.ids.Generate(),
		FamilyID:   c.family.ID,
		MemberID:   c.activeMemberID,
		Source:     src,
		Day:        c.clock.Day(),
		Date:       now.Format("2006-01-02"),
		Stars:      src.StarValue(),
		RecordedAt: now,
	}

	// Milestone detection runs over the full historical total, not the
	// today projection: the unlock thresholds are lifetime numbers.
	before := aggregate.TotalStars(c.rewards)
	c.rewards = append(c.rewards, ev)
	after := before + ev.Stars

	thresholds := aggregate.ScaledThresholds(c.members)
	tier, crossed := aggregate.NewlyCrossed(before, after, thresholds)
	signal := c.onMilestone

	c.saveLocked(ctx)
	online := c.online
	c.mu.Unlock()

	c.log.Debug("reward recorded",
		zap.String("id", ev.ID),
		zap.String("member", ev.MemberID),
		zap.String("source", string(ev.Source)),
		zap.Int("day", ev.Day),
	)

	if crossed && signal != nil {
		signal(Milestone{Tier: tier, Threshold: thresholds[tier-1], Total: after})
	}

	c.send(ctx, online, domain.ActionCreateReward, ev, func() error {
		return c.remote.CreateReward(ctx, ev)
	})
}

// RecordFasting logs the active member's fasting outcome for today.
func (c *Container) RecordFasting(ctx context.Context, mode domain.FastingMode, suhoor, iftar bool) {
	c.recordLog(ctx, domain.FastingPayload{Mode: mode, Suhoor: suhoor, Iftar: iftar})
}

// RecordMeal logs a shared meal.
func (c *Container) RecordMeal(ctx context.Context, kind string, items []string) {
	c.recordLog(ctx, domain.MealPayload{Kind: kind, Items: items})
}

// RecordMessage logs a family message from the active member.
func (c *Container) RecordMessage(ctx context.Context, text string) {
	c.mu.Lock()
	from := c.activeMemberID
	c.mu.Unlock()
	c.recordLog(ctx, domain.MessagePayload{From: from, Text: text})
}

// RecordQuran logs Quran reading time.
func (c *Container) RecordQuran(ctx context.Context, minutes int, surah string) {
	c.recordLog(ctx, domain.QuranPayload{Minutes: minutes, Surah: surah})
}

// RecordKindness logs a completed kindness mission.
func (c *Container) RecordKindness(ctx context.Context, missionID string) {
	c.recordLog(ctx, domain.KindnessPayload{MissionID: missionID})
}

// RecordStory logs a story completion.
func (c *Container) RecordStory(ctx context.Context, storyID string) {
	c.recordLog(ctx, domain.StoryPayload{StoryID: storyID})
}

// RecordCheckIn logs a daily mood check-in.
func (c *Container) RecordCheckIn(ctx context.Context, mood string) {
	c.recordLog(ctx, domain.CheckInPayload{Mood: mood})
}

func (c *Container) recordLog(ctx context.Context, payload domain.Payload) {
	c.mu.Lock()

	if c.family == nil || c.activeMemberID == "" {
		c.mu.Unlock()
		return
	}

	now := c.clock.Now()
	entry := domain.ActivityLog{
		ID:         c.ids.Generate(),
		FamilyID:   c.family.ID,
		MemberID:   c.activeMemberID,
		Day:        c.clock.Day(),
		Date:       now.Format("2006-01-02"),
		RecordedAt: now,
		Payload:    payload,
	}

	c.logs = append(c.logs, entry)
	c.saveLocked(ctx)
	online := c.online
	c.mu.Unlock()

	c.log.Debug("activity logged",
		zap.String("id", entry.ID),
		zap.String("member", entry.MemberID),
		zap.String("source", string(entry.Source())),
		zap.Int("day", entry.Day),
	)

	c.send(ctx, online, domain.ActionCreateLog, entry, func() error {
		return c.remote.CreateLog(ctx, entry)
	})
}

// UpsertMember applies a member create/update optimistically and, when
// online, replaces the local record with the server's canonical version
// on success. Members are the mutable exception to never-replace-IDs:
// the server owns their canonical form.
func (c *Container) UpsertMember(ctx context.Context, m domain.Member) {
	c.mu.Lock()

	if c.family == nil {
		c.mu.Unlock()
		return
	}

	m.FamilyID = c.family.ID
	m.Name = domain.NormalizeName(m.Name)
	if m.ID == "" {
		m.ID = c.ids.Generate()
	}
	if !m.Type.Valid() {
		m.Type = domain.MemberTypeKid
	}

	c.upsertMemberLocked(m)
	c.saveLocked(ctx)
	online := c.online
	c.mu.Unlock()

	if online && c.remote != nil {
		canonical, err := c.remote.UpsertMember(ctx, m)
		if err == nil {
			c.adoptCanonicalMember(ctx, m.ID, canonical)
			return
		}
		if remote.IsPermanent(err) {
			c.log.Warn("remote rejected member upsert", zap.String("member", m.ID), zap.Error(err))
			return
		}
	}
	c.enqueue(ctx, domain.ActionUpsertMember, m)
}

// adoptCanonicalMember swaps the optimistic member record for the
// server's canonical one. If the member vanished locally in the
// meantime (a concurrent pull removed it), the stale acknowledgement is
// dropped rather than resurrecting the record.
func (c *Container) adoptCanonicalMember(ctx context.Context, localID string, canonical domain.Member) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.members {
		if existing.ID == localID {
			c.members[i] = canonical
			if c.activeMemberID == localID {
				c.activeMemberID = canonical.ID
			}
			c.saveLocked(ctx)
			return
		}
	}
}

// UpdateFamily applies dated settings changes (times, tier) to the
// family row optimistically and syncs them like any other mutation.
func (c *Container) UpdateFamily(ctx context.Context, f domain.Family) {
	c.mu.Lock()

	if c.family == nil {
		c.mu.Unlock()
		return
	}

	f.ID = c.family.ID
	*c.family = f
	c.resetClockIfNeededLocked()
	c.saveLocked(ctx)
	online := c.online
	snapshot := *c.family
	c.mu.Unlock()

	if online && c.remote != nil {
		canonical, err := c.remote.UpdateFamily(ctx, snapshot)
		if err == nil {
			c.mu.Lock()
			if c.family != nil && c.family.ID == canonical.ID {
				*c.family = canonical
				c.resetClockIfNeededLocked()
				c.saveLocked(ctx)
			}
			c.mu.Unlock()
			return
		}
		if remote.IsPermanent(err) {
			c.log.Warn("remote rejected family update", zap.Error(err))
			return
		}
	}
	c.enqueue(ctx, domain.ActionUpdateFamily, snapshot)
}

// AddPreparation records a pre-Ramadan goal for the active member.
func (c *Container) AddPreparation(ctx context.Context, title string) {
	c.mu.Lock()

	if c.family == nil || c.activeMemberID == "" {
		c.mu.Unlock()
		return
	}

	p := domain.Preparation{
		ID:       c.ids.Generate(),
		MemberID: c.activeMemberID,
		Title:    title,
		Day:      c.clock.Day(),
	}
	c.preparations = append(c.preparations, p)
	c.saveLocked(ctx)
	online := c.online
	c.mu.Unlock()

	c.send(ctx, online, domain.ActionCreatePreparation, p, func() error {
		return c.remote.CreatePreparation(ctx, p)
	})
}

// CompletePreparation marks a preparation done. Unknown IDs are a no-op.
func (c *Container) CompletePreparation(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.preparations {
		if c.preparations[i].ID == id {
			c.preparations[i].Done = true
			c.saveLocked(ctx)
			return
		}
	}
}

// AddConnection records a social/connection entry for the active member.
func (c *Container) AddConnection(ctx context.Context, kind, note string) {
	c.mu.Lock()

	if c.family == nil || c.activeMemberID == "" {
		c.mu.Unlock()
		return
	}

	conn := domain.Connection{
		ID:       c.ids.Generate(),
		MemberID: c.activeMemberID,
		Kind:     kind,
		Note:     note,
		Day:      c.clock.Day(),
	}
	c.connections = append(c.connections, conn)
	c.saveLocked(ctx)
	online := c.online
	c.mu.Unlock()

	c.send(ctx, online, domain.ActionCreateConnection, conn, func() error {
		return c.remote.CreateConnection(ctx, conn)
	})
}

// send attempts the remote write when online and falls back to queueing.
// Permanent rejections are logged and dropped - blind retry of an
// invalid payload would loop forever against the server.
func (c *Container) send(ctx context.Context, online bool, kind domain.ActionKind, payload any, call func() error) {
	if online && c.remote != nil {
		err := call()
		if err == nil {
			return
		}
		if remote.IsPermanent(err) {
			c.log.Warn("remote rejected mutation",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			return
		}
		c.log.Debug("remote write failed, queueing",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	} else {
		c.log.Debug("offline, queueing", zap.String("kind", string(kind)))
	}

	c.enqueue(ctx, kind, payload)
}

// enqueue appends a pending action carrying enough payload to replay the
// write later, then persists the queue.
func (c *Container) enqueue(ctx context.Context, kind domain.ActionKind, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		c.log.Warn("drop unserializable pending action",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return
	}

	c.pending.Enqueue(domain.PendingAction{
		ID:        c.ids.Generate(),
		Kind:      kind,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	})

	c.mu.Lock()
	c.saveLocked(ctx)
	c.mu.Unlock()
}

func (c *Container) upsertMemberLocked(m domain.Member) {
	for i, existing := range c.members {
		if existing.ID == m.ID {
			c.members[i] = m
			return
		}
	}
	c.members = append(c.members, m)
}

// resetClockIfNeededLocked rebuilds the wall clock after family settings
// changed, unless a preview override is active.
func (c *Container) resetClockIfNeededLocked() {
	if !c.preview {
		c.resetClockLocked()
	}
}
