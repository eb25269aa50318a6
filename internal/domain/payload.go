package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the closed sum of activity log payloads. Exactly one
// concrete type exists per Source; code interpreting a payload switches
// over the concrete types, never over an untyped bag.
type Payload interface {
	Source() Source
}

// FastingMode buckets a day's fasting outcome.
type FastingMode string

const (
	FastingComplete  FastingMode = "complete"
	FastingPartial   FastingMode = "partial"
	FastingAttempted FastingMode = "attempted"
)

// FastingPayload records a fasting log for one logical day.
type FastingPayload struct {
	Mode   FastingMode `json:"mode"`
	Suhoor bool        `json:"suhoor"`
	Iftar  bool        `json:"iftar"`
}

func (FastingPayload) Source() Source { return SourceFasting }

// MealPayload records a shared meal (suhoor/iftar) and what was eaten.
type MealPayload struct {
	Kind  string   `json:"kind"`
	Items []string `json:"items,omitempty"`
}

func (MealPayload) Source() Source { return SourceMeal }

// MessagePayload is a free-text family message.
type MessagePayload struct {
	From string `json:"from"`
	Text string `json:"text"`
}

func (MessagePayload) Source() Source { return SourceMessage }

// QuranPayload records Quran reading time.
type QuranPayload struct {
	Minutes int    `json:"minutes"`
	Surah   string `json:"surah,omitempty"`
}

func (QuranPayload) Source() Source { return SourceQuran }

// KindnessPayload records a completed kindness mission.
type KindnessPayload struct {
	MissionID string `json:"mission_id"`
}

func (KindnessPayload) Source() Source { return SourceKindness }

// StoryPayload records a story listened to or read.
type StoryPayload struct {
	StoryID string `json:"story_id"`
}

func (StoryPayload) Source() Source { return SourceStory }

// CheckInPayload records a daily mood check-in.
type CheckInPayload struct {
	Mood string `json:"mood"`
}

func (CheckInPayload) Source() Source { return SourceCheckIn }

// activityEnvelope is the wire/storage shape of an ActivityLog: the flat
// record fields plus a source tag discriminating the payload.
type activityEnvelope struct {
	ID         string          `json:"id"`
	FamilyID   string          `json:"family_id"`
	MemberID   string          `json:"member_id"`
	Day        int             `json:"day"`
	Date       string          `json:"date"`
	RecordedAt time.Time       `json:"recorded_at"`
	Source     Source          `json:"source"`
	Payload    json.RawMessage `json:"payload"`
}

// MarshalJSON encodes the log as an envelope with a source tag so the
// payload variant survives a round trip through storage and the wire.
func (l ActivityLog) MarshalJSON() ([]byte, error) {
	if l.Payload == nil {
		return nil, fmt.Errorf("marshal activity log %s: nil payload", l.ID)
	}
	raw, err := json.Marshal(l.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal activity log %s: %w", l.ID, err)
	}
	return json.Marshal(activityEnvelope{
		ID:         l.ID,
		FamilyID:   l.FamilyID,
		MemberID:   l.MemberID,
		Day:        l.Day,
		Date:       l.Date,
		RecordedAt: l.RecordedAt,
		Source:     l.Payload.Source(),
		Payload:    raw,
	})
}

// UnmarshalJSON decodes the envelope and dispatches on the source tag.
// An unknown source is an error - the set of payload variants is closed.
func (l *ActivityLog) UnmarshalJSON(data []byte) error {
	var env activityEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("unmarshal activity log: %w", err)
	}

	payload, err := decodePayload(env.Source, env.Payload)
	if err != nil {
		return err
	}

	l.ID = env.ID
	l.FamilyID = env.FamilyID
	l.MemberID = env.MemberID
	l.Day = env.Day
	l.Date = env.Date
	l.RecordedAt = env.RecordedAt
	l.Payload = payload
	return nil
}

func decodePayload(src Source, raw json.RawMessage) (Payload, error) {
	unmarshal := func(p Payload) (Payload, error) {
		if len(raw) == 0 {
			return p, nil
		}
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, fmt.Errorf("unmarshal %s payload: %w", src, err)
		}
		return p, nil
	}

	switch src {
	case SourceFasting:
		p := &FastingPayload{}
		v, err := unmarshal(p)
		if err != nil {
			return nil, err
		}
		return *v.(*FastingPayload), nil
	case SourceMeal:
		p := &MealPayload{}
		v, err := unmarshal(p)
		if err != nil {
			return nil, err
		}
		return *v.(*MealPayload), nil
	case SourceMessage:
		p := &MessagePayload{}
		v, err := unmarshal(p)
		if err != nil {
			return nil, err
		}
		return *v.(*MessagePayload), nil
	case SourceQuran:
		p := &QuranPayload{}
		v, err := unmarshal(p)
		if err != nil {
			return nil, err
		}
		return *v.(*QuranPayload), nil
	case SourceKindness:
		p := &KindnessPayload{}
		v, err := unmarshal(p)
		if err != nil {
			return nil, err
		}
		return *v.(*KindnessPayload), nil
	case SourceStory:
		p := &StoryPayload{}
		v, err := unmarshal(p)
		if err != nil {
			return nil, err
		}
		return *v.(*StoryPayload), nil
	case SourceCheckIn:
		p := &CheckInPayload{}
		v, err := unmarshal(p)
		if err != nil {
			return nil, err
		}
		return *v.(*CheckInPayload), nil
	default:
		return nil, fmt.Errorf("unknown activity source %q", src)
	}
}
