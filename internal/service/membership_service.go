package service

import (
	"context"
	"errors"
	"time"

	"boz-store/internal/domain"
	"boz-store/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrMembershipPending rejects a second request while one is open.
	ErrMembershipPending = errors.New("membership request already pending")
	// ErrAlreadyMember rejects a request from an active member.
	ErrAlreadyMember = errors.New("membership is already active")
	// ErrNoPendingRequest rejects approve/reject without an open request.
	ErrNoPendingRequest = errors.New("user has no pending membership request")
	// ErrNotActiveMember rejects extend/revoke on a non-active membership.
	ErrNotActiveMember = errors.New("user has no active membership")
	// ErrInvalidExtension rejects extending by less than one day.
	ErrInvalidExtension = errors.New("extension must be at least 1 day")
)

// MembershipView is the derived BOZ PLUS state reported to the storefront.
type MembershipView struct {
	Status        domain.MembershipStatus `json:"status"`
	ExpiresAt     *time.Time              `json:"expires_at,omitempty"`
	DaysRemaining int                     `json:"days_remaining"`
}

// MembershipService drives the BOZ PLUS workflow: the user side (status,
// request) and the admin side (approve, reject, extend, revoke). Natural
// expiry is never written back; Status always reports the derived state.
type MembershipService interface {
	Status(ctx context.Context, userID uuid.UUID) (MembershipView, error)
	Request(ctx context.Context, userID uuid.UUID) (MembershipView, error)
	ListPendingRequests(ctx context.Context) ([]*domain.User, error)
	Approve(ctx context.Context, userID uuid.UUID) (MembershipView, error)
	Reject(ctx context.Context, userID uuid.UUID) (MembershipView, error)
	Extend(ctx context.Context, userID uuid.UUID, days int) (MembershipView, error)
	Revoke(ctx context.Context, userID uuid.UUID) (MembershipView, error)
}

type membershipService struct {
	userRepo     repository.UserRepository
	durationDays int
	now          func() time.Time
}

// NewMembershipService creates a new instance of MembershipService.
// durationDays is the period granted on approval.
func NewMembershipService(userRepo repository.UserRepository, durationDays int) MembershipService {
	return &membershipService{
		userRepo:     userRepo,
		durationDays: durationDays,
		now:          time.Now,
	}
}

func (s *membershipService) view(m domain.Membership) MembershipView {
	now := s.now()
	view := MembershipView{
		Status:        m.EffectiveStatus(now),
		DaysRemaining: m.DaysRemaining(now),
	}
	if view.Status == domain.MembershipActive {
		view.ExpiresAt = m.ExpiresAt
	}
	return view
}

// Status returns the derived membership state of a user.
func (s *membershipService) Status(ctx context.Context, userID uuid.UUID) (MembershipView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return MembershipView{}, err
	}
	return s.view(user.Membership()), nil
}

// Request opens a membership request. A user with an open request or an
// unexpired membership cannot request again; an expired member can.
func (s *membershipService) Request(ctx context.Context, userID uuid.UUID) (MembershipView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return MembershipView{}, err
	}

	switch user.Membership().EffectiveStatus(s.now()) {
	case domain.MembershipRequested:
		return MembershipView{}, ErrMembershipPending
	case domain.MembershipActive:
		return MembershipView{}, ErrAlreadyMember
	}

	if err := s.userRepo.SetMembership(ctx, userID, domain.MembershipRequested, nil); err != nil {
		return MembershipView{}, err
	}

	return s.view(domain.Membership{Status: domain.MembershipRequested}), nil
}

// ListPendingRequests returns users awaiting an admin decision.
func (s *membershipService) ListPendingRequests(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListByMembershipStatus(ctx, domain.MembershipRequested)
}

// Approve activates a pending request with the configured duration.
func (s *membershipService) Approve(ctx context.Context, userID uuid.UUID) (MembershipView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return MembershipView{}, err
	}
	if user.BozPlusStatus != domain.MembershipRequested {
		return MembershipView{}, ErrNoPendingRequest
	}

	expiry := s.now().AddDate(0, 0, s.durationDays)
	if err := s.userRepo.SetMembership(ctx, userID, domain.MembershipActive, &expiry); err != nil {
		return MembershipView{}, err
	}

	return s.view(domain.Membership{Status: domain.MembershipActive, ExpiresAt: &expiry}), nil
}

// Reject closes a pending request without granting membership.
func (s *membershipService) Reject(ctx context.Context, userID uuid.UUID) (MembershipView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return MembershipView{}, err
	}
	if user.BozPlusStatus != domain.MembershipRequested {
		return MembershipView{}, ErrNoPendingRequest
	}

	if err := s.userRepo.SetMembership(ctx, userID, domain.MembershipNone, nil); err != nil {
		return MembershipView{}, err
	}

	return s.view(domain.Membership{Status: domain.MembershipNone}), nil
}

// Extend adds days to an active, unexpired membership.
func (s *membershipService) Extend(ctx context.Context, userID uuid.UUID, days int) (MembershipView, error) {
	if days < 1 {
		return MembershipView{}, ErrInvalidExtension
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return MembershipView{}, err
	}
	if !user.Membership().IsActive(s.now()) {
		return MembershipView{}, ErrNotActiveMember
	}

	expiry := user.BozPlusExpiry.AddDate(0, 0, days)
	if err := s.userRepo.SetMembership(ctx, userID, domain.MembershipActive, &expiry); err != nil {
		return MembershipView{}, err
	}

	return s.view(domain.Membership{Status: domain.MembershipActive, ExpiresAt: &expiry}), nil
}

// Revoke clears an active membership immediately.
func (s *membershipService) Revoke(ctx context.Context, userID uuid.UUID) (MembershipView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return MembershipView{}, err
	}
	if user.BozPlusStatus != domain.MembershipActive {
		return MembershipView{}, ErrNotActiveMember
	}

	if err := s.userRepo.SetMembership(ctx, userID, domain.MembershipNone, nil); err != nil {
		return MembershipView{}, err
	}

	return s.view(domain.Membership{Status: domain.MembershipNone}), nil
}
