package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LastReading is the most recent meter reading kept per MPAN for quick
// access by the live usage stream.
type LastReading struct {
	MPANID         string    `json:"mpan_id"`
	Timestamp      time.Time `json:"timestamp"`
	KWhConsumption float64   `json:"kwh_consumption"`
	KWhCost        float64   `json:"kwh_cost"`
	ReadingType    string    `json:"reading_type"`
}

// LastReadingStore manages the per-meter latest reading cache.
type LastReadingStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLastReadingStore returns redis-backed store.
func NewLastReadingStore(client *redis.Client, ttl time.Duration) *LastReadingStore {
	return &LastReadingStore{client: client, ttl: ttl}
}

func (s *LastReadingStore) key(mpanID string) string {
	return fmt.Sprintf("meters:last:%s", mpanID)
}

// Save caches the latest reading for a meter.
func (s *LastReadingStore) Save(ctx context.Context, reading LastReading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(reading.MPANID), data, s.ttl).Err()
}

// Get returns the latest cached reading for a meter. Callers check
// redis.Nil for a miss.
func (s *LastReadingStore) Get(ctx context.Context, mpanID string) (*LastReading, error) {
	result, err := s.client.Get(ctx, s.key(mpanID)).Result()
	if err != nil {
		return nil, err
	}
	var reading LastReading
	if err := json.Unmarshal([]byte(result), &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}
