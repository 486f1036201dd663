package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/llm"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ApiResponse wraps successful CRUD responses.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeData writes data wrapped in a successful ApiResponse.
func writeData(w http.ResponseWriter, statusCode int, data any, logger *zap.Logger) {
	if err := WriteJSON(w, statusCode, ApiResponse{Success: true, Data: data}); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, statusCode int, errorCode, message string, logger *zap.Logger) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, logger *zap.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body", logger)
		return false
	}
	return true
}

// errorStatus maps service and AI errors onto an HTTP status, an error code and
// a client-safe message.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrWeakPassword):
		return http.StatusBadRequest, "invalid_request", err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "Invalid credentials"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "forbidden", err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrRoomUnavailable):
		return http.StatusConflict, "conflict", err.Error()
	}

	switch llm.GetErrorType(err) {
	case llm.ErrorTypeRateLimited:
		return http.StatusTooManyRequests, "rate_limited", "AI service rate limit reached, try again later"
	case llm.ErrorTypeTransport, llm.ErrorTypeUpstream:
		return http.StatusBadGateway, "upstream_error", "AI service request failed"
	}

	return http.StatusInternalServerError, "internal_error", "Internal server error"
}

// writeServiceError translates err into the JSON error body. Server-side
// failures are logged; client errors are not.
func writeServiceError(w http.ResponseWriter, err error, op string, logger *zap.Logger) {
	status, code, message := errorStatus(err)
	switch {
	case llm.IsConfigError(err):
		// Clients only see a generic 500; operators need to know it is the credential.
		logger.Error("AI provider is not configured",
			zap.String("operation", op),
			zap.Error(err))
	case status >= http.StatusInternalServerError || status == http.StatusTooManyRequests:
		logger.Error("Request failed",
			zap.String("operation", op),
			zap.Int("status", status),
			zap.Error(err))
	}
	writeError(w, status, code, message, logger)
}
