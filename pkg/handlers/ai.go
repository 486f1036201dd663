package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/auth"
	"github.com/bookingai/bookingai-engine/pkg/models"
	"github.com/bookingai/bookingai-engine/pkg/services"
)

// SortRoomsRequest for POST /api/ai/sort-rooms
type SortRoomsRequest struct {
	Preferences models.Preferences   `json:"preferences"`
	Rooms       []models.RoomSummary `json:"rooms"`
}

// ChatResponse for POST /api/ai/chat
type ChatResponse struct {
	Response string `json:"response"`
}

// AIHandler exposes the ranking, chat and evaluation pipelines. Responses use
// the pipeline boundary shapes directly rather than ApiResponse.
type AIHandler struct {
	rankingService        services.RankingService
	recommendationService services.RecommendationService
	evaluationService     services.EvaluationService
	propertyService       services.PropertyService
	logger                *zap.Logger
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(
	rankingService services.RankingService,
	recommendationService services.RecommendationService,
	evaluationService services.EvaluationService,
	propertyService services.PropertyService,
	logger *zap.Logger,
) *AIHandler {
	return &AIHandler{
		rankingService:        rankingService,
		recommendationService: recommendationService,
		evaluationService:     evaluationService,
		propertyService:       propertyService,
		logger:                logger,
	}
}

// RegisterRoutes registers the AI routes on the given mux.
func (h *AIHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, scope ScopeMiddleware) {
	mux.HandleFunc("POST /api/ai/sort-rooms", h.SortRooms)
	mux.HandleFunc("POST /api/ai/chat", scope(h.Chat))
	mux.HandleFunc("GET /api/properties/{id}/evaluation", scope(h.GetEvaluation))
	mux.HandleFunc("POST /api/properties/{id}/evaluation",
		authMiddleware.RequireRole(models.RoleHost, models.RoleAdmin)(scope(h.Evaluate)))
}

// SortRooms handles POST /api/ai/sort-rooms. AI failures never surface here:
// the input order is returned instead.
func (h *AIHandler) SortRooms(w http.ResponseWriter, r *http.Request) {
	var req SortRoomsRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	result, err := h.rankingService.Rank(r.Context(), req.Preferences, req.Rooms)
	if err != nil {
		writeServiceError(w, err, "sort_rooms", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Chat handles POST /api/ai/chat
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	reply, err := h.recommendationService.Recommend(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "chat", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ChatResponse{Response: reply}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetEvaluation handles GET /api/properties/{id}/evaluation
func (h *AIHandler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	eval, err := h.evaluationService.GetEvaluation(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "get_evaluation", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, eval); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Evaluate handles POST /api/properties/{id}/evaluation. Only the owning host
// or an admin may re-run an evaluation.
func (h *AIHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	property, err := h.propertyService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "evaluate_property", h.logger)
		return
	}
	if identity.Role != models.RoleAdmin && property.HostID != identity.UserID {
		writeError(w, http.StatusForbidden, "forbidden", "Property belongs to another host", h.logger)
		return
	}

	eval, err := h.evaluationService.Evaluate(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "evaluate_property", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, eval); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
