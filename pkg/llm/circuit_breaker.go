package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CircuitState is the state of a BreakerClient.
type CircuitState int

const (
	// CircuitClosed lets calls through.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls without contacting the provider.
	CircuitOpen
	// CircuitHalfOpen lets a single probe call through.
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds configuration for BreakerClient.
type BreakerConfig struct {
	// Threshold is the number of consecutive provider failures that opens the circuit.
	Threshold int
	// ResetAfter is how long the circuit stays open before a probe is allowed.
	ResetAfter time.Duration
}

// DefaultBreakerConfig opens after 5 consecutive failures and probes again after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Threshold:  5,
		ResetAfter: 30 * time.Second,
	}
}

// BreakerClient stops calling a provider that keeps failing. While the circuit
// is open, Generate fails fast with a transport error so ranking falls back
// immediately and evaluations report the AI service as unavailable.
//
// Only provider-side failures (transport, upstream, rate limit) count towards
// the threshold. Configuration errors and caller mistakes do not.
type BreakerClient struct {
	inner      LLMClient
	threshold  int
	resetAfter time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu               sync.Mutex
	state            CircuitState
	consecutiveFails int
	openedAt         time.Time
}

// NewBreakerClient wraps inner with a circuit breaker.
func NewBreakerClient(inner LLMClient, cfg BreakerConfig, logger *zap.Logger) *BreakerClient {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultBreakerConfig().Threshold
	}
	if cfg.ResetAfter <= 0 {
		cfg.ResetAfter = DefaultBreakerConfig().ResetAfter
	}
	return &BreakerClient{
		inner:      inner,
		threshold:  cfg.Threshold,
		resetAfter: cfg.ResetAfter,
		logger:     logger.Named("llm-breaker"),
		now:        time.Now,
		state:      CircuitClosed,
	}
}

// Generate forwards to the inner client unless the circuit is open.
func (c *BreakerClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.allow(); err != nil {
		return "", err
	}

	text, err := c.inner.Generate(ctx, prompt)
	c.record(err)
	return text, err
}

func (c *BreakerClient) allow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case CircuitClosed:
		return nil
	case CircuitOpen:
		if c.now().Sub(c.openedAt) >= c.resetAfter {
			c.state = CircuitHalfOpen
			return nil
		}
	}

	return NewErrorWithContext(ErrorTypeTransport,
		fmt.Sprintf("AI provider unavailable: circuit %s after %d consecutive failures", c.state, c.consecutiveFails),
		true, nil, c.inner.GetModel(), c.inner.GetEndpoint(), 0)
}

func (c *BreakerClient) record(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !countsAsProviderFailure(err) {
		if c.state == CircuitHalfOpen || err == nil {
			if c.state != CircuitClosed {
				c.logger.Info("AI provider recovered, closing circuit")
			}
			c.state = CircuitClosed
			c.consecutiveFails = 0
		}
		return
	}

	c.consecutiveFails++
	if c.state == CircuitHalfOpen || c.consecutiveFails >= c.threshold {
		if c.state != CircuitOpen {
			c.logger.Warn("Opening AI circuit",
				zap.Int("consecutive_failures", c.consecutiveFails),
				zap.Duration("reset_after", c.resetAfter))
		}
		c.state = CircuitOpen
		c.openedAt = c.now()
	}
}

func countsAsProviderFailure(err error) bool {
	switch GetErrorType(err) {
	case ErrorTypeTransport, ErrorTypeUpstream, ErrorTypeRateLimited:
		return true
	}
	return false
}

// State returns the current circuit state.
func (c *BreakerClient) State() CircuitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// GetModel returns the inner client's model.
func (c *BreakerClient) GetModel() string {
	return c.inner.GetModel()
}

// GetEndpoint returns the inner client's endpoint.
func (c *BreakerClient) GetEndpoint() string {
	return c.inner.GetEndpoint()
}
