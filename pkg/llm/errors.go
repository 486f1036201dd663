package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ErrorType classifies an upstream AI failure.
type ErrorType string

const (
	ErrorTypeNone ErrorType = ""
	// ErrorTypeConfig means the client is missing configuration (e.g. the API key).
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeTransport covers network failures, timeouts and cancellation.
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeRateLimited is an HTTP 429 from the upstream service.
	ErrorTypeRateLimited ErrorType = "rate_limited"
	// ErrorTypeUpstream is any other non-success answer, including unreadable bodies.
	ErrorTypeUpstream ErrorType = "upstream"
)

// ErrEmptyPrompt is returned when Generate is called without a prompt.
// It indicates a caller bug and is never sent upstream.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// maxErrorBodyLen bounds how much of an upstream error body is retained.
const maxErrorBodyLen = 2048

// Error represents a structured AI error with classification.
type Error struct {
	Type       ErrorType // Classification of the error
	Message    string    // Human-readable message
	Retryable  bool      // Whether a later attempt could succeed; the client itself never retries
	Cause      error     // Underlying error
	StatusCode int       // HTTP status code if applicable
	Body       string    // Upstream response body (truncated) if applicable
	Model      string    // Model name if known
	Endpoint   string    // Endpoint URL if known, never including credentials
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new structured AI error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// NewErrorWithContext creates a new structured AI error with additional context.
func NewErrorWithContext(errType ErrorType, message string, retryable bool, cause error, model, endpoint string, statusCode int) *Error {
	return &Error{
		Type:       errType,
		Message:    message,
		Retryable:  retryable,
		Cause:      cause,
		Model:      model,
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
}

// NewConfigError reports missing or invalid client configuration.
func NewConfigError(message string) *Error {
	return NewError(ErrorTypeConfig, message, false, nil)
}

// newStatusError classifies a non-success HTTP status from the upstream service.
func newStatusError(statusCode int, body, model, endpoint string) *Error {
	if statusCode == 429 {
		e := NewErrorWithContext(ErrorTypeRateLimited, "rate limited", true, nil, model, endpoint, statusCode)
		e.Body = truncateBody(body)
		return e
	}
	e := NewErrorWithContext(ErrorTypeUpstream, "upstream error", statusCode >= 500, nil, model, endpoint, statusCode)
	e.Body = truncateBody(body)
	return e
}

// newTransportError wraps a network-level failure. The request URL is dropped
// from *url.Error causes because it carries the API key.
func newTransportError(err error, model, endpoint string) *Error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	msg := "request failed"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timeout"
	} else if errors.Is(err, context.Canceled) {
		msg = "request canceled"
	}
	return NewErrorWithContext(ErrorTypeTransport, msg, true, err, model, endpoint, 0)
}

func truncateBody(body string) string {
	if len(body) <= maxErrorBodyLen {
		return body
	}
	return body[:maxErrorBodyLen] + "..."
}

// statusPattern finds an HTTP status in SDK error strings when no typed status
// is available. The code must follow a "status" or "HTTP" marker so digits in
// request ids or token counts are never read as a status.
var statusPattern = regexp.MustCompile(`(?i)\b(?:status(?:[ _]?code)?|http)\s*[:=]?\s*([1-5]\d\d)\b`)

// ClassifyError categorizes an error returned by a provider SDK and returns a
// structured Error. Errors already classified are returned unchanged.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newTransportError(err, "", "")
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return newTransportError(err, "", "")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return newTransportError(err, "", "")
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	statusCode := 0
	if m := statusPattern.FindStringSubmatch(errStr); m != nil {
		statusCode, _ = strconv.Atoi(m[1])
	}

	// Rate limiting
	if statusCode == 429 || strings.Contains(lower, "rate limit") || strings.Contains(lower, "rate_limit") ||
		strings.Contains(lower, "too many requests") {
		e := NewError(ErrorTypeRateLimited, "rate limited", true, err)
		e.StatusCode = 429
		return e
	}

	// Connection errors surfaced only as strings
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "connection reset") || strings.Contains(lower, "timeout") {
		return NewError(ErrorTypeTransport, "request failed", true, err)
	}

	e := NewError(ErrorTypeUpstream, "upstream error", statusCode >= 500 || strings.Contains(lower, "overloaded"), err)
	e.StatusCode = statusCode
	return e
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	return false
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeNone
}

// IsRateLimited reports whether err is an upstream rate-limit rejection.
func IsRateLimited(err error) bool {
	return GetErrorType(err) == ErrorTypeRateLimited
}

// IsConfigError reports whether err is caused by missing client configuration.
func IsConfigError(err error) bool {
	return GetErrorType(err) == ErrorTypeConfig
}
