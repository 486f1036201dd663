package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/services"
)

// LoginRequest for POST /api/accounts/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PreferencesRequest for PUT /api/accounts/preferences
type PreferencesRequest struct {
	Preferences models.Preferences `json:"preferences"`
}

// AuthHandler handles account registration, login and profile endpoints.
type AuthHandler struct {
	userService services.UserService
	sessions    *auth.SessionManager
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(userService services.UserService, sessions *auth.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
		logger:      logger,
	}
}

// RegisterRoutes registers the account routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("POST /api/accounts/register", scope(h.Register))
	mux.HandleFunc("POST /api/accounts/login", scope(h.Login))
	mux.HandleFunc("POST /api/accounts/logout", h.Logout)
	mux.HandleFunc("GET /api/accounts/me", authMiddleware.RequireAuth(scope(h.Me)))
	mux.HandleFunc("PUT /api/accounts/preferences",
		authMiddleware.RequireRole(models.RoleGuest)(scope(h.UpdatePreferences)))
	mux.HandleFunc("PUT /api/accounts/profile", authMiddleware.RequireAuth(scope(h.UpdateProfile)))
}

// Register handles POST /api/accounts/register and starts a session for the new account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	details, err := h.userService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "register", h.logger)
		return
	}

	if err := h.sessions.Login(w, r, &details.User); err != nil {
		h.logger.Error("Failed to start session after registration", zap.Error(err))
	}

	writeData(w, http.StatusCreated, details, h.logger)
}

// Login handles POST /api/accounts/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "login", h.logger)
		return
	}

	if err := h.sessions.Login(w, r, user); err != nil {
		writeServiceError(w, err, "login", h.logger)
		return
	}

	writeData(w, http.StatusOK, user, h.logger)
}

// Logout handles POST /api/accounts/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		writeServiceError(w, err, "logout", h.logger)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "logged_out"}, h.logger)
}

// Me handles GET /api/accounts/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	details, err := h.userService.Get(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err, "get_account", h.logger)
		return
	}
	writeData(w, http.StatusOK, details, h.logger)
}

// UpdatePreferences handles PUT /api/accounts/preferences
func (h *AuthHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req PreferencesRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	profile, err := h.userService.UpdatePreferences(r.Context(), identity.UserID, req.Preferences)
	if err != nil {
		writeServiceError(w, err, "update_preferences", h.logger)
		return
	}
	writeData(w, http.StatusOK, profile, h.logger)
}

// UpdateProfile handles PUT /api/accounts/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateProfileInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	details, err := h.userService.UpdateProfile(r.Context(), identity.UserID, req)
	if err != nil {
		writeServiceError(w, err, "update_profile", h.logger)
		return
	}
	writeData(w, http.StatusOK, details, h.logger)
}
