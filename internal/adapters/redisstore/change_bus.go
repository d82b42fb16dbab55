package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/mirasur/agenda-service/internal/config"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

// ChangeBus delivers change signals over Redis pub/sub. Writers publish the
// channel name only; live subscribers re-read the store on every signal, so
// bursts may be coalesced without losing anything.
type ChangeBus struct {
	client *redis.Client
	cb     *gobreaker.CircuitBreaker
}

var _ ports.ChangeBus = (*ChangeBus)(nil)

func NewChangeBus(client *redis.Client) *ChangeBus {
	return &ChangeBus{
		client: client,
		cb:     config.NewCircuitBreaker("Redis-ChangeBus"),
	}
}

func (b *ChangeBus) Publish(ctx context.Context, channel string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.client.Publish(ctx, channel, "1").Err()
	})
	return err
}

// Subscribe opens one pub/sub subscription for the channel. It is released
// when ctx is cancelled; the returned channel is closed on teardown.
func (b *ChangeBus) Subscribe(ctx context.Context, channel string) (<-chan struct{}, error) {
	sub := b.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case _, ok := <-msgs:
				if !ok {
					return
				}
				// Coalesce: one pending signal is enough, the consumer
				// re-reads the full state anyway.
				select {
				case out <- struct{}{}:
				default:
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
