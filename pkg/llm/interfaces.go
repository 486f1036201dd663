// Package llm provides clients for the upstream generative AI service.
package llm

import (
	"context"
)

// LLMClient sends a single prompt upstream and returns the raw completion text.
// Implementations make exactly one upstream call per Generate and never retry.
// Failures are returned as *Error values classified by ErrorType.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// Generate returns the completion for prompt. A successful response that
	// lacks the expected text field yields an empty string, not an error.
	Generate(ctx context.Context, prompt string) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// Ensure providers implement LLMClient at compile time.
var (
	_ LLMClient = (*Client)(nil)
	_ LLMClient = (*OpenAIClient)(nil)
	_ LLMClient = (*AnthropicClient)(nil)
	_ LLMClient = (*InstrumentedClient)(nil)
	_ LLMClient = (*BreakerClient)(nil)
)
