package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// AdminRole is the role the back-office routes require. Shoppers register
// with the plain "user" role; admins are provisioned out of band.
const AdminRole = "admin"

// RequireAdmin guards the back-office surface: product and category
// management, order fulfillment, and the BOZ PLUS approval queue. It must
// run after AuthMiddleware so the role claim is on the context.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok || role != AdminRole {
				logger.Warn("Back-office access denied",
					zap.String("path", r.URL.Path),
					zap.String("role", role),
				)
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
