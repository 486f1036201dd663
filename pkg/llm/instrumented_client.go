package llm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/logging"
	"github.com/bookingai/bookingai-engine/pkg/metrics"
)

// InstrumentedClient wraps an LLMClient to record call counts and latency per
// pipeline operation (see WithOperation).
type InstrumentedClient struct {
	inner  LLMClient
	logger *zap.Logger
}

// NewInstrumentedClient creates a new instrumentation wrapper around an LLMClient.
func NewInstrumentedClient(inner LLMClient, logger *zap.Logger) *InstrumentedClient {
	return &InstrumentedClient{
		inner:  inner,
		logger: logger.Named("llm"),
	}
}

// Generate calls the inner client and records the outcome.
func (c *InstrumentedClient) Generate(ctx context.Context, prompt string) (string, error) {
	operation := GetOperation(ctx)
	start := time.Now()

	text, err := c.inner.Generate(ctx, prompt)

	duration := time.Since(start)
	metrics.AIRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = string(GetErrorType(err))
		if outcome == "" {
			outcome = "invalid_request"
			if !errors.Is(err, ErrEmptyPrompt) {
				outcome = "error"
			}
		}
	}
	metrics.AIRequests.WithLabelValues(operation, outcome).Inc()

	c.logger.Debug("AI call finished",
		zap.String("operation", operation),
		zap.String("outcome", outcome),
		zap.String("model", c.inner.GetModel()),
		zap.Duration("duration", duration),
		zap.String("error", logging.SanitizeError(err)))

	return text, err
}

// GetModel returns the inner client's model.
func (c *InstrumentedClient) GetModel() string {
	return c.inner.GetModel()
}

// GetEndpoint returns the inner client's endpoint.
func (c *InstrumentedClient) GetEndpoint() string {
	return c.inner.GetEndpoint()
}
