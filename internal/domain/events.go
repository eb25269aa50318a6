package domain

import "time"

// Source identifies the activity that produced a reward event or an
// activity log entry. The set is closed; payload decoding switches over
// it exhaustively.
type Source string

const (
	SourceFasting  Source = "fasting"
	SourceMeal     Source = "meal"
	SourceMessage  Source = "message"
	SourceQuran    Source = "quran"
	SourceKindness Source = "kindness"
	SourceStory    Source = "story"
	SourceCheckIn  Source = "checkin"
)

// Valid reports whether s is one of the known activity sources.
func (s Source) Valid() bool {
	switch s {
	case SourceFasting, SourceMeal, SourceMessage, SourceQuran,
		SourceKindness, SourceStory, SourceCheckIn:
		return true
	}
	return false
}

// StarValue returns the number of stars a completed activity of this
// source grants. Star counts are non-negative integers; there is no
// fractional star.
func (s Source) StarValue() int {
	switch s {
	case SourceFasting:
		return 3
	case SourceQuran:
		return 2
	case SourceKindness:
		return 2
	default:
		return 1
	}
}

// RewardEvent is an immutable "star" grant: who earned it, in which
// family, on which logical day, from which activity.
//
// Reward events are append-only. They are never mutated or decremented
// after creation, and never deleted except by a full local reset.
// Duplicate prevention is a caller responsibility: check HasCompleted for
// the (member, source, day) tuple before granting.
type RewardEvent struct {
	ID         string    `json:"id"`
	FamilyID   string    `json:"family_id"`
	MemberID   string    `json:"member_id"`
	Source     Source    `json:"source"`
	Day        int       `json:"day"`  // logical day index, 1-based
	Date       string    `json:"date"` // calendar date, YYYY-MM-DD
	Stars      int       `json:"stars"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ActivityLog is a per-member, per-logical-day fact carrying a typed
// payload. Same append-only, once-per-day-per-source discipline as
// RewardEvent.
type ActivityLog struct {
	ID         string    `json:"id"`
	FamilyID   string    `json:"family_id"`
	MemberID   string    `json:"member_id"`
	Day        int       `json:"day"`
	Date       string    `json:"date"`
	RecordedAt time.Time `json:"recorded_at"`
	Payload    Payload   `json:"-"`
}

// Source returns the activity source of the log's payload, or the empty
// Source if the payload is absent.
func (l ActivityLog) Source() Source {
	if l.Payload == nil {
		return ""
	}
	return l.Payload.Source()
}
