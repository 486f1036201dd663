package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NewClientForProvider creates the client for cfg.Provider, wrapped with a
// circuit breaker and with logging and metrics instrumentation.
func NewClientForProvider(cfg *Config, logger *zap.Logger) (LLMClient, error) {
	var (
		client LLMClient
		err    error
	)

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGemini:
		client, err = NewClient(cfg, logger)
	case ProviderOpenAI:
		client, err = NewOpenAIClient(cfg, logger)
	case ProviderAnthropic:
		client, err = NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	return NewInstrumentedClient(NewBreakerClient(client, DefaultBreakerConfig(), logger), logger), nil
}
