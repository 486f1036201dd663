package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bookingai/bookingai-engine/pkg/apperrors"
	"github.com/bookingai/bookingai-engine/pkg/llm"
)

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	err := ErrorResponse(w, http.StatusNotFound, "not_found", "resource not found")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "resource not found", body["message"])
}

func TestWriteJSON_Status200(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteJSON(w, http.StatusOK, map[string]string{"key": "value"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key":"value"}`, w.Body.String())
}

func TestWriteData_WrapsInApiResponse(t *testing.T) {
	w := httptest.NewRecorder()

	writeData(w, http.StatusCreated, map[string]int{"n": 1}, zap.NewNop())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"n":1}}`, w.Body.String())
}

func TestDecodeJSON_RejectsMalformedBody(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))

	var v map[string]any
	ok := decodeJSON(w, r, &v, zap.NewNop())

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", fmt.Errorf("name: %w", apperrors.ErrInvalidInput), http.StatusBadRequest, "invalid_request"},
		{"invalid role", apperrors.ErrInvalidRole, http.StatusBadRequest, "invalid_request"},
		{"weak password", apperrors.ErrWeakPassword, http.StatusBadRequest, "invalid_request"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", fmt.Errorf("property: %w", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"room unavailable", apperrors.ErrRoomUnavailable, http.StatusConflict, "conflict"},
		{"rate limited", fmt.Errorf("evaluate: %w", llm.NewError(llm.ErrorTypeRateLimited, "429", true, nil)), http.StatusTooManyRequests, "rate_limited"},
		{"transport", llm.NewError(llm.ErrorTypeTransport, "timeout", true, nil), http.StatusBadGateway, "upstream_error"},
		{"upstream", llm.NewError(llm.ErrorTypeUpstream, "500", false, nil), http.StatusBadGateway, "upstream_error"},
		{"config", llm.NewConfigError("no key"), http.StatusInternalServerError, "internal_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, message := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, message)
		})
	}
}

func TestErrorStatus_HidesInternalDetails(t *testing.T) {
	_, _, message := errorStatus(errors.New("pq: password authentication failed"))
	assert.NotContains(t, message, "password")
}

func TestWriteServiceError_ConfigErrorIsGenericToClient(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	w := httptest.NewRecorder()

	writeServiceError(w, fmt.Errorf("evaluate: %w", llm.NewConfigError("AI_API_KEY is not set")), "evaluate property", zap.New(core))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "AI_API_KEY")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "AI provider is not configured", entries[0].Message)
	assert.Equal(t, "evaluate property", entries[0].ContextMap()["operation"])
}
