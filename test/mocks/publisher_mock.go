package mocks

import (
	"context"
	"sync"

	"github.com/mirasur/agenda-service/internal/core/ports"
)

// MockFamilyEventPublisher implements ports.FamilyEventPublisher for relay
// tests, replacing RabbitMQ.
type MockFamilyEventPublisher struct {
	mu sync.Mutex

	PublishedEvents []ports.FamilyRegisteredEvent
	PublishError    error
}

var _ ports.FamilyEventPublisher = (*MockFamilyEventPublisher)(nil)

func NewMockFamilyEventPublisher() *MockFamilyEventPublisher {
	return &MockFamilyEventPublisher{}
}

func (m *MockFamilyEventPublisher) PublishFamilyRegistered(ctx context.Context, evt ports.FamilyRegisteredEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

func (m *MockFamilyEventPublisher) Events() []ports.FamilyRegisteredEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.FamilyRegisteredEvent(nil), m.PublishedEvents...)
}
