package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mirasur/agenda-service/internal/core/ports"
)

const (
	limiterPrefix = "login_failures:"
	limiterWindow = 15 * time.Minute
	maxFailures   = 5
)

// LoginLimiter counts credential failures per email in a fixed window.
type LoginLimiter struct {
	client *redis.Client
}

var _ ports.LoginLimiter = (*LoginLimiter)(nil)

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client}
}

func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, limiterPrefix+email).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return n < maxFailures, nil
}

func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := limiterPrefix + email
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, limiterWindow)
	_, err := pipe.Exec(ctx)
	return err
}
