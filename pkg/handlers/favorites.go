package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/services"
)

// FavoriteHandler handles a user's saved properties.
type FavoriteHandler struct {
	favoriteService services.FavoriteService
	logger          *zap.Logger
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(favoriteService services.FavoriteService, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService, logger: logger}
}

// RegisterRoutes registers the favorites routes on the given mux.
func (h *FavoriteHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("GET /api/favorites", authMiddleware.RequireAuth(scope(h.List)))
	mux.HandleFunc("POST /api/favorites/{propertyID}", authMiddleware.RequireAuth(scope(h.Add)))
	mux.HandleFunc("DELETE /api/favorites/{propertyID}", authMiddleware.RequireAuth(scope(h.Remove)))
}

// List handles GET /api/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	properties, err := h.favoriteService.List(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err, "list_favorites", h.logger)
		return
	}
	writeData(w, http.StatusOK, properties, h.logger)
}

// Add handles POST /api/favorites/{propertyID}
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	propertyID, ok := ParsePropertyID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.favoriteService.Add(r.Context(), identity.UserID, propertyID); err != nil {
		writeServiceError(w, err, "add_favorite", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /api/favorites/{propertyID}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	propertyID, ok := ParsePropertyID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(r.Context(), identity.UserID, propertyID); err != nil {
		writeServiceError(w, err, "remove_favorite", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
