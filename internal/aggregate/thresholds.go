package aggregate

import (
	"math"

	"github.com/hassmaniandevil/miniramadanarabic-sub000/internal/domain"
)

// BaseThresholds is the fixed ordered table of constellation milestones
// for the reference family (one parent, one kid). Scaling adjusts these
// per actual family composition.
var BaseThresholds = [9]int{10, 25, 45, 70, 100, 135, 175, 220, 270}

// referenceCapacity is the combined daily star capacity of the reference
// family the base table was tuned for.
const referenceCapacity = 12 // parent (5) + kid (7)

// ScaledThresholds returns the milestone table adjusted for family
// composition. The multiplier is the family's combined daily star
// capacity over the reference capacity, so adding any member raises
// every threshold (monotonic in member count) and a little raises it
// less than a kid.
//
// The result must be recomputed whenever membership changes; never cache
// it across a membership change.
func ScaledThresholds(members []domain.Member) []int {
	capacity := 0
	for _, m := range members {
		capacity += m.Type.DailyStarCapacity()
	}
	if capacity == 0 {
		capacity = referenceCapacity
	}

	mult := float64(capacity) / float64(referenceCapacity)
	scaled := make([]int, len(BaseThresholds))
	for i, base := range BaseThresholds {
		v := int(math.Round(float64(base) * mult))
		if v < 1 {
			v = 1
		}
		scaled[i] = v
	}
	return scaled
}

// UnlockedTiers returns how many thresholds in the scaled table are <=
// total. The table is ascending, so this is the index of the first
// threshold above the total.
func UnlockedTiers(total int, thresholds []int) int {
	n := 0
	for _, th := range thresholds {
		if total >= th {
			n++
		}
	}
	return n
}

// NewlyCrossed compares unlocked-tier counts before and after a mutation.
// If the count increased it returns the highest newly unlocked tier
// (1-based) and true. A single mutation that jumps several thresholds
// still reports exactly one tier - the highest - so callers raise at most
// one celebratory signal per mutation.
func NewlyCrossed(totalBefore, totalAfter int, thresholds []int) (tier int, crossed bool) {
	before := UnlockedTiers(totalBefore, thresholds)
	after := UnlockedTiers(totalAfter, thresholds)
	if after <= before {
		return 0, false
	}
	return after, true
}
