package domain

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// MemberType categorizes a family member for threshold scaling.
// Each type carries a daily star capacity - the number of stars a member
// of that type can realistically earn in one day. Littles contribute
// fewer possible actions, so families with more littles need
// proportionally fewer stars per milestone tier.
type MemberType string

const (
	MemberTypeParent MemberType = "parent"
	MemberTypeKid    MemberType = "kid"
	MemberTypeLittle MemberType = "little"
)

// Valid reports whether t is one of the known member types.
func (t MemberType) Valid() bool {
	switch t {
	case MemberTypeParent, MemberTypeKid, MemberTypeLittle:
		return true
	}
	return false
}

// DailyStarCapacity returns the number of stars a member of this type can
// plausibly earn per day. Unknown types fall back to the kid capacity.
func (t MemberType) DailyStarCapacity() int {
	switch t {
	case MemberTypeParent:
		return 5
	case MemberTypeKid:
		return 7
	case MemberTypeLittle:
		return 3
	default:
		return 7
	}
}

// Family is the tenant row. At most one Family is active in the local
// state container at a time. Never deleted client-side, only cleared on
// explicit logout or a pull that finds no remote family.
type Family struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	StartDate          time.Time `json:"start_date"` // first day of the tracked period
	Days               int       `json:"days"`       // length of the tracked period
	SuhoorTime         string    `json:"suhoor_time"` // "HH:MM" anchor
	IftarTime          string    `json:"iftar_time"`  // "HH:MM" anchor
	SubscriptionTier   string    `json:"subscription_tier"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// Member is a profile owned by exactly one Family. Member IDs are unique
// within a Family. SuhoorTime/IftarTime override the family anchors when
// non-empty.
type Member struct {
	ID         string     `json:"id"`
	FamilyID   string     `json:"family_id"`
	Name       string     `json:"name"`
	Avatar     string     `json:"avatar"`
	Type       MemberType `json:"type"`
	SuhoorTime string     `json:"suhoor_time,omitempty"`
	IftarTime  string     `json:"iftar_time,omitempty"`
}

// NormalizeName trims and NFC-normalizes a display name. Arabic and
// combining-character input otherwise produces visually identical names
// that compare unequal.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Preparation is a pre-Ramadan goal or preparation item for a member.
type Preparation struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`
	Title    string `json:"title"`
	Done     bool   `json:"done"`
	Day      int    `json:"day"`
}

// Connection is a social/connection record (dua exchanged, call made,
// invitation sent) attached to a member and a logical day.
type Connection struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`
	Kind     string `json:"kind"`
	Note     string `json:"note,omitempty"`
	Day      int    `json:"day"`
}

// StreakRecord is the remote-computed streak for a member. The recurrence
// rule lives server-side; clients cache and display, never recompute.
type StreakRecord struct {
	MemberID  string    `json:"member_id"`
	Current   int       `json:"current"`
	Longest   int       `json:"longest"`
	UpdatedAt time.Time `json:"updated_at"`
}
