package mocks

import (
	"context"
	"sync"

	"github.com/mirasur/agenda-service/internal/core/ports"
)

// MockChangeBus implements ports.ChangeBus in memory. Tests call Signal to
// simulate a change notification arriving on a channel.
type MockChangeBus struct {
	mu sync.Mutex

	subscribers map[string][]chan struct{}

	PublishCalls   []string
	SubscribeCalls []string

	PublishError   error
	SubscribeError error
}

var _ ports.ChangeBus = (*MockChangeBus)(nil)

func NewMockChangeBus() *MockChangeBus {
	return &MockChangeBus{subscribers: make(map[string][]chan struct{})}
}

func (b *MockChangeBus) Publish(ctx context.Context, channel string) error {
	b.mu.Lock()
	b.PublishCalls = append(b.PublishCalls, channel)
	err := b.PublishError
	b.mu.Unlock()
	if err != nil {
		return err
	}
	b.Signal(channel)
	return nil
}

func (b *MockChangeBus) Subscribe(ctx context.Context, channel string) (<-chan struct{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SubscribeCalls = append(b.SubscribeCalls, channel)

	if b.SubscribeError != nil {
		return nil, b.SubscribeError
	}

	ch := make(chan struct{}, 8)
	b.subscribers[channel] = append(b.subscribers[channel], ch)

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[channel]
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[channel] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}()
	return ch, nil
}

// Signal delivers one change notification to every subscriber of the channel.
func (b *MockChangeBus) Signal(channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers[channel] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
