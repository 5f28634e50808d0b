package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boz-store/internal/domain"
	"boz-store/internal/middleware"
	"boz-store/internal/repository"
	"boz-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mock repositories for testing

type mockUserRepository struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) ListByMembershipStatus(ctx context.Context, status domain.MembershipStatus) ([]*domain.User, error) {
	var users []*domain.User
	for _, user := range m.users {
		if user.BozPlusStatus == status {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *mockUserRepository) SetMembership(ctx context.Context, id uuid.UUID, status domain.MembershipStatus, expiry *time.Time) error {
	user, exists := m.users[id]
	if !exists {
		return repository.ErrUserNotFound
	}
	user.BozPlusStatus = status
	user.BozPlusExpiry = expiry
	return nil
}

// injectUser stands in for the auth middleware and places the caller's
// identity on the request context.
func injectUser(userID uuid.UUID, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID.String())
			ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}

func newMembershipRouter(t *testing.T, users *mockUserRepository, callerID uuid.UUID) chi.Router {
	t.Helper()
	logger := zap.NewNop()
	handler := NewMembershipHandler(service.NewMembershipService(users, 30), logger)

	r := chi.NewRouter()
	handler.RegisterRoutes(r, injectUser(callerID, "admin"), passthrough)
	return r
}

func seedHandlerUser(users *mockUserRepository, status domain.MembershipStatus, expiry *time.Time) *domain.User {
	user := &domain.User{
		ID:            uuid.New(),
		Email:         "plus@example.com",
		FirstName:     "Ada",
		LastName:      "Byron",
		BozPlusStatus: status,
		BozPlusExpiry: expiry,
	}
	users.users[user.ID] = user
	return user
}

func TestMembershipStatusEndpoint_ReportsDerivedState(t *testing.T) {
	users := newMockUserRepository()
	expiry := time.Now().Add(-time.Minute)
	user := seedHandlerUser(users, domain.MembershipActive, &expiry)
	router := newMembershipRouter(t, users, user.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/boz-plus/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view service.MembershipView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Status != domain.MembershipNone {
		t.Errorf("expected expired membership to report none, got %s", view.Status)
	}
	if view.DaysRemaining != 0 {
		t.Errorf("expected 0 days remaining, got %d", view.DaysRemaining)
	}
}

func TestMembershipRequestEndpoint_OpensRequest(t *testing.T) {
	users := newMockUserRepository()
	user := seedHandlerUser(users, domain.MembershipNone, nil)
	router := newMembershipRouter(t, users, user.ID)

	req := httptest.NewRequest(http.MethodPost, "/api/boz-plus/request", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if user.BozPlusStatus != domain.MembershipRequested {
		t.Errorf("expected stored status requested, got %s", user.BozPlusStatus)
	}

	// A second request while one is pending conflicts.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/boz-plus/request", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate request, got %d", w.Code)
	}
}

func TestMembershipAdminWorkflowEndpoints(t *testing.T) {
	users := newMockUserRepository()
	admin := seedHandlerUser(users, domain.MembershipNone, nil)
	member := &domain.User{
		ID:            uuid.New(),
		Email:         "applicant@example.com",
		BozPlusStatus: domain.MembershipRequested,
	}
	users.users[member.ID] = member
	router := newMembershipRouter(t, users, admin.ID)

	// Approving without a request conflicts.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/boz-plus/approve/"+admin.ID.String(), nil))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 approving without request, got %d", w.Code)
	}

	// The pending applicant shows up in the queue.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/boz-plus/requests", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 listing requests, got %d", w.Code)
	}
	var queue []MembershipRequestView
	if err := json.NewDecoder(w.Body).Decode(&queue); err != nil {
		t.Fatalf("failed to decode queue: %v", err)
	}
	if len(queue) != 1 || queue[0].UserID != member.ID.String() {
		t.Fatalf("expected the applicant in the queue, got %+v", queue)
	}

	// Approve activates with an expiry.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/boz-plus/approve/"+member.ID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 approving, got %d", w.Code)
	}
	if member.BozPlusStatus != domain.MembershipActive || member.BozPlusExpiry == nil {
		t.Fatalf("expected active membership with expiry, got %s", member.BozPlusStatus)
	}

	// Extend pushes the expiry out.
	before := *member.BozPlusExpiry
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/boz-plus/extend/"+member.ID.String()+"?days=15", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 extending, got %d", w.Code)
	}
	if !member.BozPlusExpiry.After(before) {
		t.Error("expected extension to move the expiry forward")
	}

	// Extend without days is a bad request.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/boz-plus/extend/"+member.ID.String(), nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without days parameter, got %d", w.Code)
	}

	// Revoke clears the membership immediately.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/boz-plus/revoke/"+member.ID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 revoking, got %d", w.Code)
	}
	if member.BozPlusStatus != domain.MembershipNone {
		t.Errorf("expected membership cleared, got %s", member.BozPlusStatus)
	}

	// Unknown user is a 404.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/boz-plus/reject/"+uuid.New().String(), nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown user, got %d", w.Code)
	}
}
