// Package auth provides session-based authentication for the HTTP API: the
// password policy, signed session cookies, and middleware that places the
// caller's Identity into the request context.
//
// Example usage in a service:
//
//	func (s *Service) DoSomething(ctx context.Context) error {
//	    identity, err := auth.RequireIdentity(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    // identity.UserID, identity.Role
//	}
package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/models"
)

type contextKey string

// IdentityKey is the context key for the authenticated Identity.
const IdentityKey contextKey = "identity"

// Identity is the authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Role   models.Role
}

// HasRole reports whether the identity has any of the given roles.
func (i Identity) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// WithIdentity stores the identity in context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity extracts the identity from context.
// Returns false if the request is not authenticated.
func GetIdentity(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	if !ok || identity.UserID == uuid.Nil {
		return Identity{}, false
	}
	return identity, true
}

// RequireIdentity extracts the identity from context and returns an error
// wrapping apperrors.ErrUnauthorized if not found.
func RequireIdentity(ctx context.Context) (Identity, error) {
	identity, ok := GetIdentity(ctx)
	if !ok {
		return Identity{}, fmt.Errorf("identity not found in context: %w", apperrors.ErrUnauthorized)
	}
	return identity, nil
}
