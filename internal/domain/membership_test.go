package domain

import (
	"testing"
	"time"
)

var membershipNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestEffectiveStatus_ActiveWithFutureExpiry(t *testing.T) {
	expiry := membershipNow.Add(10 * 24 * time.Hour)
	m := Membership{Status: MembershipActive, ExpiresAt: &expiry}

	if got := m.EffectiveStatus(membershipNow); got != MembershipActive {
		t.Errorf("expected active, got %s", got)
	}
	if !m.IsActive(membershipNow) {
		t.Error("expected IsActive to be true")
	}
}

func TestEffectiveStatus_ExpiredReadsAsNone(t *testing.T) {
	expiry := membershipNow.Add(-time.Second)
	m := Membership{Status: MembershipActive, ExpiresAt: &expiry}

	if got := m.EffectiveStatus(membershipNow); got != MembershipNone {
		t.Errorf("expected none one second past expiry, got %s", got)
	}
	if m.DaysRemaining(membershipNow) != 0 {
		t.Errorf("expected 0 days remaining past expiry, got %d", m.DaysRemaining(membershipNow))
	}
}

func TestEffectiveStatus_ExpiryExactlyNowReadsAsNone(t *testing.T) {
	expiry := membershipNow
	m := Membership{Status: MembershipActive, ExpiresAt: &expiry}

	if got := m.EffectiveStatus(membershipNow); got != MembershipNone {
		t.Errorf("expected none at the expiry instant, got %s", got)
	}
}

func TestEffectiveStatus_ActiveWithoutExpiryReadsAsNone(t *testing.T) {
	m := Membership{Status: MembershipActive}

	if got := m.EffectiveStatus(membershipNow); got != MembershipNone {
		t.Errorf("expected none for active row without expiry, got %s", got)
	}
}

func TestEffectiveStatus_RequestedPassesThrough(t *testing.T) {
	m := Membership{Status: MembershipRequested}

	if got := m.EffectiveStatus(membershipNow); got != MembershipRequested {
		t.Errorf("expected requested, got %s", got)
	}
	if m.IsActive(membershipNow) {
		t.Error("a pending request must not grant member pricing")
	}
}

func TestDaysRemaining_PartialDayCountsAsOne(t *testing.T) {
	expiry := membershipNow.Add(36 * time.Hour)
	m := Membership{Status: MembershipActive, ExpiresAt: &expiry}

	if got := m.DaysRemaining(membershipNow); got != 2 {
		t.Errorf("expected 36 hours to read as 2 days, got %d", got)
	}
}

func TestDaysRemaining_WholeDays(t *testing.T) {
	expiry := membershipNow.Add(30 * 24 * time.Hour)
	m := Membership{Status: MembershipActive, ExpiresAt: &expiry}

	if got := m.DaysRemaining(membershipNow); got != 30 {
		t.Errorf("expected 30 days remaining, got %d", got)
	}
}
