package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

func TestMemberMonthlyStats(t *testing.T) {
	members := []domain.Member{
		{ID: "m1", Type: domain.MemberTypeParent},
		{ID: "m2", Type: domain.MemberTypeKid},
	}

	logs := []domain.ActivityLog{
		{ID: "l1", MemberID: "m1", Day: 1, Payload: domain.FastingPayload{Mode: domain.FastingComplete}},
		{ID: "l2", MemberID: "m1", Day: 2, Payload: domain.FastingPayload{Mode: domain.FastingComplete}},
		{ID: "l3", MemberID: "m1", Day: 3, Payload: domain.FastingPayload{Mode: domain.FastingPartial}},
		// Two quran sessions on the same day count one distinct day.
		{ID: "l4", MemberID: "m1", Day: 2, Payload: domain.QuranPayload{Minutes: 10}},
		{ID: "l5", MemberID: "m1", Day: 2, Payload: domain.QuranPayload{Minutes: 5}},
		{ID: "l6", MemberID: "m1", Day: 4, Payload: domain.QuranPayload{Minutes: 20}},
		{ID: "l7", MemberID: "m1", Day: 4, Payload: domain.CheckInPayload{Mood: "grateful"}},
		// Other member's logs must not bleed in.
		{ID: "l8", MemberID: "m2", Day: 1, Payload: domain.FastingPayload{Mode: domain.FastingAttempted}},
		{ID: "l9", MemberID: "m2", Day: 1, Payload: domain.StoryPayload{StoryID: "s1"}},
	}

	events := []domain.RewardEvent{
		{ID: "r1", MemberID: "m1", Day: 1, Stars: 3},
		{ID: "r2", MemberID: "m2", Day: 1, Stars: 9},
	}

	stats := MemberMonthlyStats(logs, events, members, "m1")

	assert.Equal(t, 2, stats.FastingComplete)
	assert.Equal(t, 1, stats.FastingPartial)
	assert.Equal(t, 0, stats.FastingAttempted)
	assert.Equal(t, 2, stats.QuranDays)
	assert.Equal(t, 1, stats.CheckInDays)
	assert.Equal(t, 0, stats.StoryDays)
	assert.Equal(t, 3, stats.Stars)

	// Unlocked tiers use the family-wide total (12), not the member's
	// own 3: constellations are a household achievement.
	family := UnlockedTiers(TotalStars(events), ScaledThresholds(members))
	assert.Equal(t, family, stats.UnlockedTiers)
	assert.Equal(t, 1, stats.UnlockedTiers)
}
