package aggregate

import "github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"

// MemberStats is the per-member period summary shown on the monthly
// report. UnlockedTiers uses the family-wide total, not the member's own:
// constellations are a shared household achievement, individual numbers
// are informational.
type MemberStats struct {
	MemberID string

	FastingComplete  int
	FastingPartial   int
	FastingAttempted int

	QuranDays    int
	KindnessDays int
	StoryDays    int
	CheckInDays  int

	Stars         int
	UnlockedTiers int
}

// MemberMonthlyStats computes the period summary for one member from the
// full event log. Day counts are distinct logical days with at least one
// event in the category, not raw event counts.
func MemberMonthlyStats(
	logs []domain.ActivityLog,
	events []domain.RewardEvent,
	members []domain.Member,
	memberID string,
) MemberStats {
	stats := MemberStats{MemberID: memberID}

	quranDays := map[int]bool{}
	kindnessDays := map[int]bool{}
	storyDays := map[int]bool{}
	checkinDays := map[int]bool{}

	for _, l := range logs {
		if l.MemberID != memberID {
			continue
		}
		switch p := l.Payload.(type) {
		case domain.FastingPayload:
			switch p.Mode {
			case domain.FastingComplete:
				stats.FastingComplete++
			case domain.FastingPartial:
				stats.FastingPartial++
			case domain.FastingAttempted:
				stats.FastingAttempted++
			}
		case domain.QuranPayload:
			quranDays[l.Day] = true
		case domain.KindnessPayload:
			kindnessDays[l.Day] = true
		case domain.StoryPayload:
			storyDays[l.Day] = true
		case domain.CheckInPayload:
			checkinDays[l.Day] = true
		case domain.MealPayload, domain.MessagePayload:
			// Meals and messages are shared-family records, not counted
			// in individual statistics.
		}
	}

	stats.QuranDays = len(quranDays)
	stats.KindnessDays = len(kindnessDays)
	stats.StoryDays = len(storyDays)
	stats.CheckInDays = len(checkinDays)
	stats.Stars = MemberStars(events, memberID)
	stats.UnlockedTiers = UnlockedTiers(TotalStars(events), ScaledThresholds(members))

	return stats
}
