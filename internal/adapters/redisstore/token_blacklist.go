package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mirasur/agenda-service/internal/core/ports"
)

const blacklistPrefix = "token_blacklist:"

// TokenBlacklist keeps revoked token hashes in Redis until the token would
// have expired anyway.
type TokenBlacklist struct {
	client *redis.Client
}

var _ ports.TokenBlacklist = (*TokenBlacklist)(nil)

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func (b *TokenBlacklist) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, blacklistPrefix+tokenHash, "1", ttl).Err()
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
