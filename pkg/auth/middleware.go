package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/models"
)

// IdentityReader resolves the caller's identity from a request.
type IdentityReader interface {
	Identity(r *http.Request) (Identity, bool)
}

// Middleware provides HTTP authentication middleware.
// It is thin and delegates session decoding to the IdentityReader.
type Middleware struct {
	sessions IdentityReader
	logger   *zap.Logger
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(sessions IdentityReader, logger *zap.Logger) *Middleware {
	return &Middleware{
		sessions: sessions,
		logger:   logger,
	}
}

// OptionalAuth sets the identity in context when a valid session exists and
// passes anonymous requests through unchanged.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := m.sessions.Identity(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), identity))
		}
		next(w, r)
	}
}

// RequireAuth requires a valid session and sets the identity in context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.sessions.Identity(r)
		if !ok {
			m.unauthorized(w, "Authentication required")
			return
		}
		next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

// RequireRole requires a valid session whose role is one of roles.
func (m *Middleware) RequireRole(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := GetIdentity(r.Context())
			if !identity.HasRole(roles...) {
				m.logger.Warn("Role not permitted for endpoint",
					zap.String("user_id", identity.UserID.String()),
					zap.String("role", string(identity.Role)),
					zap.String("path", r.URL.Path))
				m.forbidden(w, "Insufficient permissions")
				return
			}
			next(w, r)
		})
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}

// forbidden returns a 403 response with JSON error body.
func (m *Middleware) forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "forbidden",
		"message": message,
	})
}
