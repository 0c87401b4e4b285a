package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const resultCacheTTL = 24 * time.Hour

// ResultCache keeps the most recent generation outcome per request in
// Redis so repeat views of a request do not hit the database. A nil
// client disables caching entirely.
type ResultCache struct {
	redis *redis.Client
}

func NewResultCache(redisClient *redis.Client) *ResultCache {
	return &ResultCache{redis: redisClient}
}

func resultKey(requestID uuid.UUID) string {
	return fmt.Sprintf("recipe:result:%s", requestID)
}

// Save stores a generation result under its request ID with a 24h TTL.
func (c *ResultCache) Save(ctx context.Context, result *GenerationResult) error {
	if c == nil || c.redis == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal generation result: %w", err)
	}

	if err := c.redis.Set(ctx, resultKey(result.Request.ID), data, resultCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache generation result: %w", err)
	}
	return nil
}

// Get retrieves a cached generation result, returning nil on a miss.
func (c *ResultCache) Get(ctx context.Context, requestID uuid.UUID) (*GenerationResult, error) {
	if c == nil || c.redis == nil {
		return nil, nil
	}

	data, err := c.redis.Get(ctx, resultKey(requestID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}

	var result GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}

// Invalidate drops the cached result for a request.
func (c *ResultCache) Invalidate(ctx context.Context, requestID uuid.UUID) error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, resultKey(requestID)).Err()
}
