package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arez-sajeel/Project-Green/internal/models"
)

// AnalyticsCache keeps aggregated property analytics in redis so repeated
// dashboard loads skip the usage_logs scans. Entries expire on TTL rather
// than being invalidated when new readings land.
type AnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalyticsCache returns redis-backed cache.
func NewAnalyticsCache(client *redis.Client, ttl time.Duration) *AnalyticsCache {
	return &AnalyticsCache{client: client, ttl: ttl}
}

func (c *AnalyticsCache) key(propertyID int64, from, to time.Time) string {
	return fmt.Sprintf("analytics:property:%d:%d:%d", propertyID, from.UTC().Unix(), to.UTC().Unix())
}

// Save caches an analytics report for its window.
func (c *AnalyticsCache) Save(ctx context.Context, analytics models.PropertyAnalytics) error {
	data, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(analytics.PropertyID, analytics.From, analytics.To), data, c.ttl).Err()
}

// Get returns the cached report for a window. Callers check redis.Nil for
// a miss.
func (c *AnalyticsCache) Get(ctx context.Context, propertyID int64, from, to time.Time) (*models.PropertyAnalytics, error) {
	result, err := c.client.Get(ctx, c.key(propertyID, from, to)).Result()
	if err != nil {
		return nil, err
	}
	var analytics models.PropertyAnalytics
	if err := json.Unmarshal([]byte(result), &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}
