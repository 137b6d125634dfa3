package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/docflow-admin/token"
	"github.com/jrsteele09/docflow-admin/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the verified access token claims
const ContextKeyClaims ContextKey = "claims"

// RequireAuth is middleware that validates a Bearer access token
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := s.access.Verify(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			user, err := s.users.GetByID(claims.UserID)
			if err != nil || !user.Active() {
				writeError(w, http.StatusUnauthorized, "user is not active")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole rejects users whose token carries none of roles.
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, _ := claimsFrom(r.Context())
			for _, role := range roles {
				if claims.Role == role {
					next(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "access denied")
		}
	}
}

func claimsFrom(ctx context.Context) (token.AccessClaims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(token.AccessClaims)
	return claims, ok
}
