package domain

import (
	"time"
)

// MembershipStatus is the stored BOZ PLUS status of a user.
type MembershipStatus string

const (
	// MembershipNone means the user has no membership and no open request.
	MembershipNone MembershipStatus = "none"
	// MembershipRequested means the user asked for BOZ PLUS and an admin has
	// not yet decided.
	MembershipRequested MembershipStatus = "requested"
	// MembershipActive means an admin approved the request; ExpiresAt holds
	// the end of the paid period.
	MembershipActive MembershipStatus = "active"
)

// Membership is the BOZ PLUS view of a user. The stored status is what the
// last admin action wrote; expiry-based demotion is never written back, it is
// derived at read time through EffectiveStatus.
type Membership struct {
	Status    MembershipStatus `json:"status"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

// EffectiveStatus returns the status as of now. A stored "active" with an
// expiry at or before now reads as "none"; the row itself is left untouched.
func (m Membership) EffectiveStatus(now time.Time) MembershipStatus {
	if m.Status != MembershipActive {
		return m.Status
	}
	if m.ExpiresAt == nil || !m.ExpiresAt.After(now) {
		return MembershipNone
	}
	return MembershipActive
}

// IsActive reports whether the membership grants member pricing as of now.
func (m Membership) IsActive(now time.Time) bool {
	return m.EffectiveStatus(now) == MembershipActive
}

// DaysRemaining returns the number of whole-or-partial days left on an active
// membership, never negative. An expired or absent membership reports 0.
func (m Membership) DaysRemaining(now time.Time) int {
	if m.Status != MembershipActive || m.ExpiresAt == nil {
		return 0
	}
	left := m.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) != 0 {
		days++
	}
	return days
}
