package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/affinet/awin-gateway/internal/models"
)

// rateTTL bounds how long a program's commission groups are served from
// cache before the network is asked again.
const rateTTL = 15 * time.Minute

// RateCache caches commission-group listings per advertiser program so
// repeated rate lookups do not hit the network API.
type RateCache struct {
	redis *RedisClient
}

// NewRateCache creates a new RateCache.
func NewRateCache(redis *RedisClient) *RateCache {
	return &RateCache{redis: redis}
}

func (c *RateCache) key(programID string) string {
	return fmt.Sprintf("awin:rates:%s", programID)
}

// Get returns the cached rates for a program. The second return value is
// false on a miss or on any cache failure; a broken cache never fails a
// lookup.
func (c *RateCache) Get(ctx context.Context, programID string) ([]models.CommissionRate, bool) {
	jsonData, err := c.redis.Get(ctx, c.key(programID))
	if err != nil {
		return nil, false
	}

	var rates []models.CommissionRate
	if err := json.Unmarshal([]byte(jsonData), &rates); err != nil {
		log.Warn().Err(err).Str("program_id", programID).Msg("discarding corrupt rate cache entry")
		_ = c.redis.Delete(ctx, c.key(programID))
		return nil, false
	}
	return rates, true
}

// Set stores a program's full rate listing.
func (c *RateCache) Set(ctx context.Context, programID string, rates []models.CommissionRate) error {
	jsonData, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	return c.redis.Set(ctx, c.key(programID), string(jsonData), rateTTL)
}

// Invalidate drops a program's cached rates.
func (c *RateCache) Invalidate(ctx context.Context, programID string) error {
	return c.redis.Delete(ctx, c.key(programID))
}
