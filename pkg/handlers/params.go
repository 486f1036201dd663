package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/auth"
)

// ParseID extracts and validates the {id} path parameter.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
func ParseID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "id", "invalid_id", "Invalid ID format", logger)
}

// ParsePropertyID extracts and validates the {propertyID} path parameter.
func ParsePropertyID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "propertyID", "invalid_property_id", "Invalid property ID format", logger)
}

// parseUUID is the internal helper that does the actual parsing work.
func parseUUID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(pathParam))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCode, errorMessage, logger)
		return uuid.Nil, false
	}
	return id, true
}

// requireIdentity returns the authenticated caller. Routes wrapped in
// RequireAuth always have one; the check covers misconfigured routes.
func requireIdentity(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (auth.Identity, bool) {
	identity, ok := auth.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", logger)
		return auth.Identity{}, false
	}
	return identity, true
}

// ScopeMiddleware attaches a request-scoped database connection; see database.WithScope.
type ScopeMiddleware func(http.HandlerFunc) http.HandlerFunc
