package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// AuthSession is the cached record of an issued token.
type AuthSession struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	TokenHash string    `json:"tokenHash"`
	CreatedAt time.Time `json:"createdAt"`
}

func sessionKey(tokenHash string) string {
	return AuthCachePrefix + tokenHash
}

// SaveAuthSession stores the session keyed by token hash with a TTL.
func SaveAuthSession(ctx context.Context, client *redis.Client, session AuthSession, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	if err := client.Set(ctx, sessionKey(session.TokenHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// GetAuthSession returns redis.Nil when the session is unknown.
func GetAuthSession(ctx context.Context, client *redis.Client, tokenHash string) (*AuthSession, error) {
	data, err := client.Get(ctx, sessionKey(tokenHash)).Result()
	if err != nil {
		return nil, err
	}
	var session AuthSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	return &session, nil
}

// DeleteAuthSession removes a session, revoking its token.
func DeleteAuthSession(ctx context.Context, client *redis.Client, tokenHash string) error {
	return client.Del(ctx, sessionKey(tokenHash)).Err()
}
