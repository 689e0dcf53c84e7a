package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"bcplughub/models"

	"github.com/go-redis/redis/v8"
)

const insightPrefix = "ai:insight:"

// RecommendationCache stores generated recommendations per event set.
type RecommendationCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type RedisRecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRecommendationCache(client *redis.Client, ttl time.Duration) *RedisRecommendationCache {
	return &RedisRecommendationCache{client: client, ttl: ttl}
}

func (s *RedisRecommendationCache) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := s.client.Get(ctx, insightPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return data, true, nil
}

func (s *RedisRecommendationCache) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, insightPrefix+key, value, s.ttl).Err()
}

// insightKey fingerprints the events a recommendation was generated for.
func insightKey(events []models.InsightEvent) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, fmt.Sprintf("%s|%s|%d|%d", e.Identifier(), e.Date, e.RSVPCount, e.MaxCapacity))
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, ";")))
	return hex.EncodeToString(sum[:16])
}
