package ports

import (
	"context"
	"time"
)

// TokenBlacklist revokes session tokens until their natural expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// LoginLimiter throttles repeated credential failures per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
}
