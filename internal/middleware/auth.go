package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// accessClaims mirrors the access tokens issued by the user service: the
// shopper's ID and role. Membership is deliberately absent; it is read fresh
// from the user row so approvals and expiry apply without re-login.
type accessClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// bearerToken pulls the raw token out of the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

// AuthMiddleware validates the shopper's access token and stores the
// identity claims on the request context.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				logger.Debug("Missing or malformed authorization header",
					zap.String("path", r.URL.Path),
				)
				respondWithError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			claims := &accessClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, keyFunc)
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				logger.Debug("Expired access token", zap.String("path", r.URL.Path))
				respondWithError(w, http.StatusUnauthorized, "token expired")
				return
			case err != nil, !token.Valid:
				logger.Debug("Access token rejected", zap.Error(err))
				respondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			if claims.UserID == "" || claims.Role == "" {
				logger.Debug("Access token missing identity claims")
				respondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated shopper's ID from the context.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRole extracts the authenticated shopper's role from the context.
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}
