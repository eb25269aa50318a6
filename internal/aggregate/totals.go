package aggregate

import "github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"

// TotalStars sums star counts across all reward events.
func TotalStars(events []domain.RewardEvent) int {
	total := 0
	for _, e := range events {
		total += e.Stars
	}
	return total
}

// MemberStars sums star counts for a single member.
func MemberStars(events []domain.RewardEvent, memberID string) int {
	total := 0
	for _, e := range events {
		if e.MemberID == memberID {
			total += e.Stars
		}
	}
	return total
}

// HasCompleted reports whether the member already produced a reward event
// for (source, logical day). This is the duplicate-prevention query: a
// boolean over the event log, never a counter. Callers of a record-reward
// path must consult it before granting; the same tuple must never produce
// two reward events.
func HasCompleted(events []domain.RewardEvent, memberID string, src domain.Source, day int) bool {
	for _, e := range events {
		if e.MemberID == memberID && e.Source == src && e.Day == day {
			return true
		}
	}
	return false
}

// HasLogged is HasCompleted over the activity log.
func HasLogged(logs []domain.ActivityLog, memberID string, src domain.Source, day int) bool {
	for _, l := range logs {
		if l.MemberID == memberID && l.Source() == src && l.Day == day {
			return true
		}
	}
	return false
}

// EventsOnDay projects the reward events of one logical day out of the
// full log. The "today" view everywhere in the engine is this projection,
// not an independently mutated collection.
func EventsOnDay(events []domain.RewardEvent, day int) []domain.RewardEvent {
	var out []domain.RewardEvent
	for _, e := range events {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}

// LogsOnDay projects the activity logs of one logical day.
func LogsOnDay(logs []domain.ActivityLog, day int) []domain.ActivityLog {
	var out []domain.ActivityLog
	for _, l := range logs {
		if l.Day == day {
			out = append(out, l)
		}
	}
	return out
}
