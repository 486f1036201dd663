package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/services"
)

// PropertyListResponse for GET /api/properties
type PropertyListResponse struct {
	Properties []*models.Property `json:"properties"`
	Total      int                `json:"total"`
}

// PropertyHandler handles property listings and their rooms.
type PropertyHandler struct {
	propertyService services.PropertyService
	roomService     services.RoomService
	logger          *zap.Logger
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(
	propertyService services.PropertyService,
	roomService services.RoomService,
	logger *zap.Logger,
) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		roomService:     roomService,
		logger:          logger,
	}
}

// RegisterRoutes registers the property and room routes on the given mux.
func (h *PropertyHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	manage := authMiddleware.RequireRole(models.RoleHost, models.RoleAdmin)

	mux.HandleFunc("GET /api/properties", scope(h.List))
	mux.HandleFunc("GET /api/properties/{id}", scope(h.Get))
	mux.HandleFunc("POST /api/properties", authMiddleware.RequireRole(models.RoleHost)(scope(h.Create)))
	mux.HandleFunc("PUT /api/properties/{id}", manage(scope(h.Update)))
	mux.HandleFunc("DELETE /api/properties/{id}", manage(scope(h.Delete)))
	mux.HandleFunc("GET /api/host/properties", authMiddleware.RequireRole(models.RoleHost)(scope(h.ListMine)))

	mux.HandleFunc("GET /api/properties/{id}/rooms", scope(h.ListRooms))
	mux.HandleFunc("POST /api/properties/{id}/rooms", manage(scope(h.CreateRoom)))
	mux.HandleFunc("PUT /api/rooms/{id}", manage(scope(h.UpdateRoom)))
}

// List handles GET /api/properties?location=&limit=&offset=
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.PropertyFilter{Location: r.URL.Query().Get("location")}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", name+" must be an integer", h.logger)
			return
		}
		*dst = n
	}

	properties, err := h.propertyService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, "list_properties", h.logger)
		return
	}
	if properties == nil {
		properties = []*models.Property{}
	}
	writeData(w, http.StatusOK, PropertyListResponse{Properties: properties, Total: len(properties)}, h.logger)
}

// ListMine handles GET /api/host/properties
func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	properties, err := h.propertyService.ListByHost(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err, "list_host_properties", h.logger)
		return
	}
	if properties == nil {
		properties = []*models.Property{}
	}
	writeData(w, http.StatusOK, PropertyListResponse{Properties: properties, Total: len(properties)}, h.logger)
}

// Get handles GET /api/properties/{id}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	property, err := h.propertyService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get_property", h.logger)
		return
	}
	writeData(w, http.StatusOK, property, h.logger)
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req services.PropertyInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	property, err := h.propertyService.Create(r.Context(), identity, req)
	if err != nil {
		writeServiceError(w, err, "create_property", h.logger)
		return
	}
	writeData(w, http.StatusCreated, property, h.logger)
}

// Update handles PUT /api/properties/{id}
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.PropertyInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	property, err := h.propertyService.Update(r.Context(), identity, id, req)
	if err != nil {
		writeServiceError(w, err, "update_property", h.logger)
		return
	}
	writeData(w, http.StatusOK, property, h.logger)
}

// Delete handles DELETE /api/properties/{id}
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.propertyService.Delete(r.Context(), identity, id); err != nil {
		writeServiceError(w, err, "delete_property", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListRooms handles GET /api/properties/{id}/rooms
func (h *PropertyHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListByProperty(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "list_rooms", h.logger)
		return
	}
	if rooms == nil {
		rooms = []*models.Room{}
	}
	writeData(w, http.StatusOK, rooms, h.logger)
}

// CreateRoom handles POST /api/properties/{id}/rooms
func (h *PropertyHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	propertyID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.RoomInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	room, err := h.roomService.Create(r.Context(), identity, propertyID, req)
	if err != nil {
		writeServiceError(w, err, "create_room", h.logger)
		return
	}
	writeData(w, http.StatusCreated, room, h.logger)
}

// UpdateRoom handles PUT /api/rooms/{id}
func (h *PropertyHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	roomID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.RoomInput
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	room, err := h.roomService.Update(r.Context(), identity, roomID, req)
	if err != nil {
		writeServiceError(w, err, "update_room", h.logger)
		return
	}
	writeData(w, http.StatusOK, room, h.logger)
}
