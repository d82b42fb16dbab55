package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/mirasur/agenda-service/internal/core/ports"
)

// MockTokenBlacklist implements ports.TokenBlacklist in memory.
type MockTokenBlacklist struct {
	mu sync.Mutex

	revoked map[string]time.Time

	RevokeError    error
	IsRevokedError error
}

var _ ports.TokenBlacklist = (*MockTokenBlacklist)(nil)

func NewMockTokenBlacklist() *MockTokenBlacklist {
	return &MockTokenBlacklist{revoked: make(map[string]time.Time)}
}

func (m *MockTokenBlacklist) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.revoked[tokenHash] = time.Now().Add(ttl)
	return nil
}

func (m *MockTokenBlacklist) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsRevokedError != nil {
		return false, m.IsRevokedError
	}
	until, ok := m.revoked[tokenHash]
	return ok && time.Now().Before(until), nil
}

// MockLoginLimiter implements ports.LoginLimiter in memory.
type MockLoginLimiter struct {
	mu sync.Mutex

	failures map[string]int

	// Limit is the failure count at which Allow starts refusing.
	Limit int

	AllowError         error
	RecordFailureError error
}

var _ ports.LoginLimiter = (*MockLoginLimiter)(nil)

func NewMockLoginLimiter() *MockLoginLimiter {
	return &MockLoginLimiter{failures: make(map[string]int), Limit: 5}
}

func (m *MockLoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AllowError != nil {
		return false, m.AllowError
	}
	return m.failures[email] < m.Limit, nil
}

func (m *MockLoginLimiter) RecordFailure(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordFailureError != nil {
		return m.RecordFailureError
	}
	m.failures[email]++
	return nil
}

func (m *MockLoginLimiter) Failures(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[email]
}
