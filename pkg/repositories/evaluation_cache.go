package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bookingai/bookingai-engine/pkg/models"
)

// DefaultEvaluationCacheTTL is used when no TTL is configured.
const DefaultEvaluationCacheTTL = 24 * time.Hour

// EvaluationCache is a read-through cache in front of the persisted property
// evaluation. The database stays the source of truth.
type EvaluationCache interface {
	// Get returns the cached evaluation, or nil on a miss.
	Get(ctx context.Context, propertyID uuid.UUID) (*models.PropertyEvaluation, error)
	Set(ctx context.Context, propertyID uuid.UUID, eval *models.PropertyEvaluation) error
	Delete(ctx context.Context, propertyID uuid.UUID) error
}

type redisEvaluationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEvaluationCache returns a Redis-backed cache, or a no-op cache when
// client is nil (Redis not configured).
func NewEvaluationCache(client *redis.Client, ttl time.Duration) EvaluationCache {
	if client == nil {
		return noopEvaluationCache{}
	}
	if ttl <= 0 {
		ttl = DefaultEvaluationCacheTTL
	}
	return &redisEvaluationCache{client: client, ttl: ttl}
}

func evaluationCacheKey(propertyID uuid.UUID) string {
	return fmt.Sprintf("bookingai:evaluation:%s", propertyID)
}

func (c *redisEvaluationCache) Get(ctx context.Context, propertyID uuid.UUID) (*models.PropertyEvaluation, error) {
	val, err := c.client.Get(ctx, evaluationCacheKey(propertyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read evaluation cache: %w", err)
	}

	var eval models.PropertyEvaluation
	if err := json.Unmarshal(val, &eval); err != nil {
		return nil, fmt.Errorf("failed to decode cached evaluation: %w", err)
	}
	return &eval, nil
}

func (c *redisEvaluationCache) Set(ctx context.Context, propertyID uuid.UUID, eval *models.PropertyEvaluation) error {
	data, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation: %w", err)
	}
	if err := c.client.Set(ctx, evaluationCacheKey(propertyID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write evaluation cache: %w", err)
	}
	return nil
}

func (c *redisEvaluationCache) Delete(ctx context.Context, propertyID uuid.UUID) error {
	if err := c.client.Del(ctx, evaluationCacheKey(propertyID)).Err(); err != nil {
		return fmt.Errorf("failed to delete evaluation cache: %w", err)
	}
	return nil
}

type noopEvaluationCache struct{}

func (noopEvaluationCache) Get(context.Context, uuid.UUID) (*models.PropertyEvaluation, error) {
	return nil, nil
}

func (noopEvaluationCache) Set(context.Context, uuid.UUID, *models.PropertyEvaluation) error {
	return nil
}

func (noopEvaluationCache) Delete(context.Context, uuid.UUID) error {
	return nil
}
