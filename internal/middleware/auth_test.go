package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

const authTestSecret = "storefront-test-secret"

// signAccessToken issues a token the way the user service does: HS256 with
// user_id and role claims.
func signAccessToken(t *testing.T, secret, userID, role string, expiry time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// serveCartRequest runs a request for a protected storefront path through
// the auth middleware and reports the response plus whether the inner
// handler saw the identity claims.
func serveCartRequest(t *testing.T, authorization string) (*httptest.ResponseRecorder, string, string) {
	t.Helper()

	var gotUserID, gotRole string
	handler := AuthMiddleware(authTestSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		gotRole, _ = GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, gotUserID, gotRole
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	w, _, _ := serveCartRequest(t, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without authorization header, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	token := signAccessToken(t, authTestSecret, "shopper-1", "user", -time.Hour)
	w, _, _ := serveCartRequest(t, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	token := signAccessToken(t, "some-other-secret", "shopper-1", "user", time.Hour)
	w, _, _ := serveCartRequest(t, "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for token signed with wrong secret, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsTokenWithoutIdentity(t *testing.T) {
	// A structurally valid token missing user_id must not reach handlers.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(authTestSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	w, _, _ := serveCartRequest(t, "Bearer "+signed)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for token without identity claims, got %d", w.Code)
	}
}

func TestProperty_ValidTokensCarryIdentityToHandlers(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid tokens put user_id and role on the context", prop.ForAll(
		func(userID string, role string) bool {
			token := signAccessToken(t, authTestSecret, userID, role, time.Hour)
			w, gotUserID, gotRole := serveCartRequest(t, "Bearer "+token)

			if w.Code != http.StatusOK {
				t.Logf("FAIL: expected 200 for valid token, got %d", w.Code)
				return false
			}
			if gotUserID != userID || gotRole != role {
				t.Logf("FAIL: context claims %q/%q do not match token %q/%q", gotUserID, gotRole, userID, role)
				return false
			}
			return true
		},
		gen.RegexMatch(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`),
		gen.OneConstOf("user", "admin"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_MalformedAuthorizationHeadersRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("headers without a Bearer token are rejected", prop.ForAll(
		func(garbage string) bool {
			w, _, _ := serveCartRequest(t, garbage)
			return w.Code == http.StatusUnauthorized
		},
		gen.OneGenOf(
			gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
			gen.AlphaString().Map(func(s string) string { return "Basic " + s }),
			gen.Const("Bearer"),
			gen.Const("Bearer "),
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRequireAdminBlocksShoppers(t *testing.T) {
	cases := []struct {
		name     string
		role     string
		withAuth bool
		want     int
	}{
		{name: "admin passes", role: "admin", withAuth: true, want: http.StatusOK},
		{name: "shopper blocked", role: "user", withAuth: true, want: http.StatusForbidden},
		{name: "no identity blocked", withAuth: false, want: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireAdmin(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/admin/products", nil)
			if tc.withAuth {
				authed := AuthMiddleware(authTestSecret, zap.NewNop())(handler)
				token := signAccessToken(t, authTestSecret, "staff-1", tc.role, time.Hour)
				req.Header.Set("Authorization", "Bearer "+token)
				handler = authed
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}
