// Package middleware provides the HTTP middleware chain for the v1 API:
// CORS, metrics, session authentication and permission gating.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/seva-trust/portal-backend/shared/utils"
	"github.com/seva-trust/portal-backend/v1/models"
	"github.com/seva-trust/portal-backend/v1/services"
)

type contextKey string

const memberContextKey contextKey = "authenticatedMember"

// publicPaths are reachable without a session. Logout is public so it stays
// idempotent: a request with a stale or missing cookie still gets a 200 and a
// cleared cookie.
var publicPaths = []string{
	"/api/v1/auth/login",
	"/api/v1/auth/register",
	"/api/v1/auth/logout",
	"/api/v1/auth/password-reset",
	"/api/v1/auth/password-reset/confirm",
}

// SessionAuthMiddleware authenticates requests via the session cookie and puts
// the resolved member into the request context.
type SessionAuthMiddleware struct {
	sessions *services.SessionService
}

// NewSessionAuthMiddleware creates a session authentication middleware
func NewSessionAuthMiddleware(sessions *services.SessionService) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{sessions: sessions}
}

// Authenticate validates the session cookie on protected paths. Missing or
// invalid sessions yield 401; validation never raises beyond that.
func (m *SessionAuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(models.SessionCookieName)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		member, err := m.sessions.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			slog.Warn("session validation failed", "path", r.URL.Path, "method", r.Method)
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), memberContextKey, member)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isPublicPath(path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// MemberFromRequest returns the authenticated member set by the session
// middleware, or nil when the request is unauthenticated.
func MemberFromRequest(r *http.Request) *models.Member {
	member, _ := r.Context().Value(memberContextKey).(*models.Member)
	return member
}

// WithMember returns a copy of the request carrying the given member, used by
// handler tests.
func WithMember(r *http.Request, member *models.Member) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), memberContextKey, member))
}
