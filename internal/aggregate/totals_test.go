package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

func rewards() []domain.RewardEvent {
	return []domain.RewardEvent{
		{ID: "r1", MemberID: "m1", Source: domain.SourceFasting, Day: 1, Stars: 3},
		{ID: "r2", MemberID: "m1", Source: domain.SourceQuran, Day: 1, Stars: 2},
		{ID: "r3", MemberID: "m2", Source: domain.SourceCheckIn, Day: 1, Stars: 1},
		{ID: "r4", MemberID: "m1", Source: domain.SourceFasting, Day: 2, Stars: 3},
	}
}

func TestTotalStars(t *testing.T) {
	assert.Equal(t, 9, TotalStars(rewards()))
	assert.Equal(t, 0, TotalStars(nil))
}

func TestMemberStars(t *testing.T) {
	assert.Equal(t, 8, MemberStars(rewards(), "m1"))
	assert.Equal(t, 1, MemberStars(rewards(), "m2"))
	assert.Equal(t, 0, MemberStars(rewards(), "ghost"))
}

func TestHasCompleted(t *testing.T) {
	evs := rewards()

	assert.True(t, HasCompleted(evs, "m1", domain.SourceFasting, 1))
	assert.True(t, HasCompleted(evs, "m1", domain.SourceFasting, 2))
	assert.False(t, HasCompleted(evs, "m1", domain.SourceFasting, 3))
	assert.False(t, HasCompleted(evs, "m2", domain.SourceFasting, 1))
	assert.False(t, HasCompleted(evs, "m1", domain.SourceStory, 1))
}

func TestEventsOnDay(t *testing.T) {
	day1 := EventsOnDay(rewards(), 1)
	assert.Len(t, day1, 3)

	day2 := EventsOnDay(rewards(), 2)
	assert.Len(t, day2, 1)
	assert.Equal(t, "r4", day2[0].ID)

	assert.Empty(t, EventsOnDay(rewards(), 30))
}

func TestLogsOnDay(t *testing.T) {
	logs := []domain.ActivityLog{
		{ID: "l1", MemberID: "m1", Day: 1, Payload: domain.CheckInPayload{Mood: "calm"}},
		{ID: "l2", MemberID: "m1", Day: 2, Payload: domain.CheckInPayload{Mood: "happy"}},
	}

	assert.Len(t, LogsOnDay(logs, 1), 1)
	assert.True(t, HasLogged(logs, "m1", domain.SourceCheckIn, 2))
	assert.False(t, HasLogged(logs, "m1", domain.SourceQuran, 2))
}
