package transport

import (
	"net/http"
	"strconv"

	"boz-store/internal/middleware"
	"boz-store/internal/repository"
	"boz-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MembershipRequestView is one row of the admin approval queue.
type MembershipRequestView struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	RequestedAt string `json:"requested_at"`
}

// MembershipHandler handles HTTP requests for the BOZ PLUS workflow
type MembershipHandler struct {
	membershipService service.MembershipService
	logger            *zap.Logger
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(membershipService service.MembershipService, logger *zap.Logger) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		logger:            logger,
	}
}

// RegisterRoutes registers the user-facing routes under /api/boz-plus and
// the admin workflow under /api/admin/boz-plus.
func (h *MembershipHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/boz-plus", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/status", h.Status)
		r.Post("/request", h.Request)
	})

	r.Route("/api/admin/boz-plus", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/requests", h.ListRequests)
		r.Post("/approve/{userID}", h.Approve)
		r.Post("/reject/{userID}", h.Reject)
		r.Post("/extend/{userID}", h.Extend)
		r.Delete("/revoke/{userID}", h.Revoke)
	})
}

// Status handles reading the caller's derived membership state
func (h *MembershipHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.membershipService.Status(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get membership status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get membership status")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// Request handles opening a membership request
func (h *MembershipHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.membershipService.Request(r.Context(), userID)
	if err != nil {
		switch err {
		case service.ErrMembershipPending:
			middleware.RespondWithError(w, http.StatusConflict, "membership request already pending")
		case service.ErrAlreadyMember:
			middleware.RespondWithError(w, http.StatusConflict, "membership is already active")
		default:
			h.logger.Error("Failed to request membership", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to request membership")
		}
		return
	}

	h.logger.Info("Membership requested", zap.String("user_id", userID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, view)
}

// ListRequests handles the admin approval queue
func (h *MembershipHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	users, err := h.membershipService.ListPendingRequests(r.Context())
	if err != nil {
		h.logger.Error("Failed to list membership requests", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list membership requests")
		return
	}

	views := make([]MembershipRequestView, 0, len(users))
	for _, user := range users {
		views = append(views, MembershipRequestView{
			UserID:      user.ID.String(),
			Email:       user.Email,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			RequestedAt: user.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, views)
}

func (h *MembershipHandler) pathUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *MembershipHandler) respondWorkflow(w http.ResponseWriter, view service.MembershipView, err error) {
	if err != nil {
		switch err {
		case service.ErrNoPendingRequest:
			middleware.RespondWithError(w, http.StatusConflict, "user has no pending membership request")
		case service.ErrNotActiveMember:
			middleware.RespondWithError(w, http.StatusConflict, "user has no active membership")
		case service.ErrInvalidExtension:
			middleware.RespondWithError(w, http.StatusBadRequest, "extension must be at least 1 day")
		case repository.ErrUserNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		default:
			h.logger.Error("Membership workflow action failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "membership action failed")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// Approve handles admin approval of a pending request
func (h *MembershipHandler) Approve(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	view, err := h.membershipService.Approve(r.Context(), userID)
	if err == nil {
		h.logger.Info("Membership approved", zap.String("user_id", userID.String()))
	}
	h.respondWorkflow(w, view, err)
}

// Reject handles admin rejection of a pending request
func (h *MembershipHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	view, err := h.membershipService.Reject(r.Context(), userID)
	if err == nil {
		h.logger.Info("Membership rejected", zap.String("user_id", userID.String()))
	}
	h.respondWorkflow(w, view, err)
}

// Extend handles admin extension of an active membership by ?days=N
func (h *MembershipHandler) Extend(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "days query parameter is required")
		return
	}

	view, err := h.membershipService.Extend(r.Context(), userID, days)
	if err == nil {
		h.logger.Info("Membership extended",
			zap.String("user_id", userID.String()),
			zap.Int("days", days),
		)
	}
	h.respondWorkflow(w, view, err)
}

// Revoke handles admin revocation of an active membership
func (h *MembershipHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	view, err := h.membershipService.Revoke(r.Context(), userID)
	if err == nil {
		h.logger.Info("Membership revoked", zap.String("user_id", userID.String()))
	}
	h.respondWorkflow(w, view, err)
}
