package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/logging"
)

const (
	// DefaultAnthropicModel is used when no model is configured for the anthropic provider.
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	// DefaultAnthropicEndpoint is the Messages API base URL.
	DefaultAnthropicEndpoint = "https://api.anthropic.com/v1"

	anthropicMaxTokens = 2048
)

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	client   *anthropic.Client
	endpoint string
	model    string
	hasKey   bool
	logger   *zap.Logger
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultAnthropicEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	client := anthropic.NewClient(cfg.APIKey,
		anthropic.WithBaseURL(endpoint),
		anthropic.WithHTTPClient(&http.Client{Timeout: cfg.timeout()}),
	)

	return &AnthropicClient{
		client:   client,
		endpoint: endpoint,
		model:    model,
		hasKey:   cfg.APIKey != "",
		logger:   logger.Named("llm"),
	}, nil
}

// Generate sends prompt as a single user message and returns the first text block.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if !c.hasKey {
		return "", NewConfigError("ANTHROPIC_API_KEY is not set")
	}

	c.logger.Debug("AI request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		llmErr := c.parseError(err)
		c.logger.Error("AI request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(llmErr)))
		return "", llmErr
	}

	text := extractAnthropicText(resp)

	c.logger.Info("AI request completed",
		zap.String("model", c.model),
		zap.Int("response_len", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	return text, nil
}

// parseError prefers the SDK's typed errors over string matching. An
// *anthropic.RequestError carries the HTTP status; an *anthropic.APIError only
// carries the error type, which maps onto a status.
func (c *AnthropicClient) parseError(err error) *Error {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode > 0 {
		e := newStatusError(reqErr.StatusCode, string(reqErr.Body), c.model, c.endpoint)
		e.Cause = err
		return e
	}

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		if status := anthropicErrorStatus(apiErr.Type); status > 0 {
			e := newStatusError(status, apiErr.Message, c.model, c.endpoint)
			e.Cause = err
			return e
		}
	}

	e := ClassifyError(err)
	e.Model = c.model
	e.Endpoint = c.endpoint
	return e
}

// anthropicErrorStatus maps documented Messages API error types to their HTTP status.
func anthropicErrorStatus(t anthropic.ErrType) int {
	switch t {
	case anthropic.ErrTypeInvalidRequest:
		return http.StatusBadRequest
	case anthropic.ErrTypeAuthentication:
		return http.StatusUnauthorized
	case anthropic.ErrTypePermission:
		return http.StatusForbidden
	case anthropic.ErrTypeNotFound:
		return http.StatusNotFound
	case anthropic.ErrTypeTooLarge:
		return http.StatusRequestEntityTooLarge
	case anthropic.ErrTypeRateLimit:
		return http.StatusTooManyRequests
	case anthropic.ErrTypeApi:
		return http.StatusInternalServerError
	case anthropic.ErrTypeOverloaded:
		return 529
	}
	return 0
}

func extractAnthropicText(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}

// GetModel returns the configured model name.
func (c *AnthropicClient) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *AnthropicClient) GetEndpoint() string {
	return c.endpoint
}
