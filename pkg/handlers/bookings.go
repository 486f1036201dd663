package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/services"
)

// BookingHandler handles reservations and the reviews left on them.
type BookingHandler struct {
	bookingService services.BookingService
	reviewService  services.ReviewService
	logger         *zap.Logger
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(
	bookingService services.BookingService,
	reviewService services.ReviewService,
	logger *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		reviewService:  reviewService,
		logger:         logger,
	}
}

// RegisterRoutes registers the booking routes on the given mux. All of them
// require a guest session.
func (h *BookingHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	guest := authMiddleware.RequireRole(models.RoleGuest)

	mux.HandleFunc("POST /api/bookings", guest(scope(h.Create)))
	mux.HandleFunc("GET /api/bookings", guest(scope(h.List)))
	mux.HandleFunc("POST /api/bookings/{id}/cancel", guest(scope(h.Cancel)))
	mux.HandleFunc("POST /api/bookings/{id}/reviews", guest(scope(h.Review)))
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req services.BookingInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	booking, err := h.bookingService.Create(r.Context(), identity.UserID, req)
	if err != nil {
		writeServiceError(w, err, "create_booking", h.logger)
		return
	}
	writeData(w, http.StatusCreated, booking, h.logger)
}

// List handles GET /api/bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	bookings, err := h.bookingService.List(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err, "list_bookings", h.logger)
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	writeData(w, http.StatusOK, bookings, h.logger)
}

// Cancel handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	booking, err := h.bookingService.Cancel(r.Context(), identity.UserID, id)
	if err != nil {
		writeServiceError(w, err, "cancel_booking", h.logger)
		return
	}
	writeData(w, http.StatusOK, booking, h.logger)
}

// Review handles POST /api/bookings/{id}/reviews. The review is stored even
// when the follow-up property evaluation fails; the failure is reported in
// evaluation_error.
func (h *BookingHandler) Review(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.ReviewInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	submission, err := h.reviewService.Submit(r.Context(), identity.UserID, id, req)
	if err != nil {
		writeServiceError(w, err, "submit_review", h.logger)
		return
	}
	writeData(w, http.StatusCreated, submission, h.logger)
}
