package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/logging"
)

const (
	// DefaultGeminiEndpoint is the base URL of the Gemini generateContent API.
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultGeminiModel is used when no model is configured.
	DefaultGeminiModel = "gemini-2.5-flash"
	// MaxTimeout bounds a single upstream call.
	MaxTimeout = 30 * time.Second

	maxResponseBytes = 10 << 20
)

// Provider names accepted by NewClientForProvider.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds configuration for creating an AI client.
type Config struct {
	Provider string        // "gemini" (default), "openai" or "anthropic"
	Endpoint string        // Base URL; provider default if empty
	Model    string        // Model name; provider default if empty
	APIKey   string        // Credential, resolved once at startup; empty yields ErrorTypeConfig at call time
	Timeout  time.Duration // Per-call timeout, clamped to MaxTimeout
}

func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 || c.Timeout > MaxTimeout {
		return MaxTimeout
	}
	return c.Timeout
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a new Gemini client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultGeminiEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.timeout()},
		endpoint:   endpoint,
		model:      model,
		apiKey:     cfg.APIKey,
		logger:     logger.Named("llm"),
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// text returns candidates[0].content.parts[0].text, or "" if any segment is missing.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

// Generate sends prompt to Gemini and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if c.apiKey == "" {
		return "", NewConfigError("GEMINI_API_KEY is not set")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), bytes.NewReader(body))
	if err != nil {
		return "", NewConfigError(fmt.Sprintf("build request: %v", logging.SanitizeError(err)))
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("AI request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		llmErr := newTransportError(err, c.model, c.GetEndpoint())
		c.logger.Error("AI request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(llmErr)))
		return "", llmErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", newTransportError(err, c.model, c.GetEndpoint())
	}

	if resp.StatusCode != http.StatusOK {
		llmErr := newStatusError(resp.StatusCode, string(raw), c.model, c.GetEndpoint())
		c.logger.Warn("AI request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("type", string(llmErr.Type)),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("body", logging.TruncateString(string(raw), 200)))
		return "", llmErr
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		llmErr := NewErrorWithContext(ErrorTypeUpstream, "invalid JSON in response", false, err, c.model, c.GetEndpoint(), resp.StatusCode)
		llmErr.Body = truncateBody(string(raw))
		return "", llmErr
	}

	text := parsed.text()

	c.logger.Info("AI request completed",
		zap.String("model", c.model),
		zap.Int("response_len", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	return text, nil
}

// requestURL builds the generateContent URL including the credential.
// The result must never be logged.
func (c *Client) requestURL() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.endpoint, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}

// GetEndpoint returns the generateContent URL without the credential.
func (c *Client) GetEndpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
}
