package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLog_RoundTrip_Fasting(t *testing.T) {
	orig := ActivityLog{
		ID:         "log-1",
		FamilyID:   "fam-1",
		MemberID:   "mem-1",
		Day:        5,
		Date:       "2026-03-05",
		RecordedAt: time.Date(2026, 3, 5, 18, 30, 0, 0, time.UTC),
		Payload:    FastingPayload{Mode: FastingPartial, Suhoor: true},
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got ActivityLog
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, orig, got)
	assert.Equal(t, SourceFasting, got.Source())
}

func TestActivityLog_RoundTrip_AllVariants(t *testing.T) {
	payloads := []Payload{
		FastingPayload{Mode: FastingComplete, Suhoor: true, Iftar: true},
		MealPayload{Kind: "iftar", Items: []string{"dates", "soup"}},
		MessagePayload{From: "mem-1", Text: "Ramadan Mubarak!"},
		QuranPayload{Minutes: 15, Surah: "Al-Fatiha"},
		KindnessPayload{MissionID: "share-toys"},
		StoryPayload{StoryID: "night-journey"},
		CheckInPayload{Mood: "happy"},
	}

	for _, p := range payloads {
		t.Run(string(p.Source()), func(t *testing.T) {
			orig := ActivityLog{ID: "l", FamilyID: "f", MemberID: "m", Day: 1, Payload: p}

			data, err := json.Marshal(orig)
			require.NoError(t, err)

			var got ActivityLog
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, p, got.Payload)
		})
	}
}

func TestActivityLog_UnmarshalUnknownSource(t *testing.T) {
	var got ActivityLog
	err := json.Unmarshal([]byte(`{"id":"x","source":"tiktok","payload":{}}`), &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown activity source")
}

func TestActivityLog_MarshalNilPayload(t *testing.T) {
	_, err := json.Marshal(ActivityLog{ID: "x"})
	require.Error(t, err)
}

func TestNormalizeName(t *testing.T) {
	// "é" as e + combining acute must equal the precomposed form.
	assert.Equal(t, NormalizeName("Amélie"), NormalizeName("Amélie"))
	assert.Equal(t, "Yusuf", NormalizeName("  Yusuf "))
}

func TestMemberType_Capacity(t *testing.T) {
	assert.Equal(t, 5, MemberTypeParent.DailyStarCapacity())
	assert.Equal(t, 7, MemberTypeKid.DailyStarCapacity())
	assert.Equal(t, 3, MemberTypeLittle.DailyStarCapacity())
	assert.False(t, MemberType("robot").Valid())
}

func TestSource_StarValue_NonNegative(t *testing.T) {
	for _, s := range []Source{
		SourceFasting, SourceMeal, SourceMessage, SourceQuran,
		SourceKindness, SourceStory, SourceCheckIn,
	} {
		assert.True(t, s.Valid())
		assert.Greater(t, s.StarValue(), 0, "source %s", s)
	}
}
