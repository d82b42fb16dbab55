// Package mocks provides in-memory implementations of the port interfaces
// for testing. Services depend only on the ports, so the same code paths run
// against these as against Postgres and Redis.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

// MockIdentityStore implements ports.IdentityStore with plaintext passwords.
type MockIdentityStore struct {
	mu sync.RWMutex

	credentials map[string]credential // by id

	// Call tracking for verification
	CreateCredentialCalls []string
	DeleteCredentialCalls []string
	AuthenticateCalls     []string

	// Error injection
	CreateCredentialError error
	DeleteCredentialError error
	AuthenticateError     error
}

type credential struct {
	id       string
	email    string
	password string
}

var _ ports.IdentityStore = (*MockIdentityStore)(nil)

func NewMockIdentityStore() *MockIdentityStore {
	return &MockIdentityStore{credentials: make(map[string]credential)}
}

func (m *MockIdentityStore) SeedCredential(id, email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credentials[id] = credential{id: id, email: email, password: password}
}

// HasCredential reports whether a credential with the id still exists.
func (m *MockIdentityStore) HasCredential(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.credentials[id]
	return ok
}

func (m *MockIdentityStore) CreateCredential(ctx context.Context, id, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCredentialCalls = append(m.CreateCredentialCalls, id)

	if m.CreateCredentialError != nil {
		return m.CreateCredentialError
	}
	for _, c := range m.credentials {
		if c.email == email {
			return domain.ErrEmailInUse
		}
	}
	m.credentials[id] = credential{id: id, email: email, password: password}
	return nil
}

func (m *MockIdentityStore) DeleteCredential(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCredentialCalls = append(m.DeleteCredentialCalls, id)

	if m.DeleteCredentialError != nil {
		return m.DeleteCredentialError
	}
	delete(m.credentials, id)
	return nil
}

func (m *MockIdentityStore) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AuthenticateCalls = append(m.AuthenticateCalls, email)

	if m.AuthenticateError != nil {
		return domain.Identity{}, m.AuthenticateError
	}
	for _, c := range m.credentials {
		if c.email == email {
			if c.password != password {
				return domain.Identity{}, domain.ErrInvalidCredentials
			}
			return domain.Identity{ID: c.id, Email: c.email}, nil
		}
	}
	return domain.Identity{}, domain.ErrUserNotFound
}

// MockUserRepository implements ports.UserRepository in memory.
type MockUserRepository struct {
	mu sync.RWMutex

	users map[string]*domain.User // by id

	FindByIDCalls      []string
	ListParentsCalls   int
	CreateProfileCalls []domain.User
	OutboxPayloads     [][]byte

	FindByIDError      error
	ListParentsError   error
	CreateProfileError error
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) SeedUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	m.FindByIDCalls = append(m.FindByIDCalls, id)
	m.mu.Unlock()

	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) ListParents(ctx context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListParentsCalls++

	if m.ListParentsError != nil {
		return nil, m.ListParentsError
	}

	var parents []domain.User
	for _, u := range m.users {
		if u.Role == domain.RoleParent {
			parents = append(parents, *u)
		}
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i].Name < parents[j].Name })
	return parents, nil
}

func (m *MockUserRepository) CreateProfile(ctx context.Context, user domain.User, outboxPayload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateProfileCalls = append(m.CreateProfileCalls, user)
	m.OutboxPayloads = append(m.OutboxPayloads, outboxPayload)

	if m.CreateProfileError != nil {
		return m.CreateProfileError
	}
	copied := user
	m.users[user.ID] = &copied
	return nil
}

// MockReportRepository implements ports.ReportRepository in memory with the
// same whole-document replace and version semantics as the Postgres adapter.
type MockReportRepository struct {
	mu sync.RWMutex

	reports map[string]*domain.DailyReport // by studentID+"/"+date

	ReadCalls    []string
	ReplaceCalls []string

	ReadError    error
	ReplaceError error
}

var _ ports.ReportRepository = (*MockReportRepository)(nil)

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{reports: make(map[string]*domain.DailyReport)}
}

func reportKey(studentID, date string) string { return studentID + "/" + date }

func (m *MockReportRepository) SeedReport(studentID, date string, report domain.DailyReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if report.Version == 0 {
		report.Version = 1
	}
	m.reports[reportKey(studentID, date)] = &report
}

func (m *MockReportRepository) Read(ctx context.Context, studentID, date string) (*domain.DailyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadCalls = append(m.ReadCalls, reportKey(studentID, date))

	if m.ReadError != nil {
		return nil, m.ReadError
	}
	report, ok := m.reports[reportKey(studentID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *report
	return &copied, nil
}

func (m *MockReportRepository) Replace(
	ctx context.Context,
	studentID, date string,
	report domain.DailyReport,
	expectedVersion int64,
) (*domain.DailyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceCalls = append(m.ReplaceCalls, reportKey(studentID, date))

	if m.ReplaceError != nil {
		return nil, m.ReplaceError
	}

	key := reportKey(studentID, date)
	existing, ok := m.reports[key]

	if expectedVersion > 0 {
		if !ok || existing.Version != expectedVersion {
			return nil, domain.ErrStaleWrite
		}
	}

	report.Version = 1
	if ok {
		report.Version = existing.Version + 1
	}
	report.UpdatedAt = time.Now().UTC()

	copied := report
	m.reports[key] = &copied
	return &report, nil
}

// MockMessageRepository implements ports.MessageRepository in memory.
// ListByChat orders by creation time, not insertion order, so tests can
// verify ordering survives out-of-order arrival.
type MockMessageRepository struct {
	mu sync.RWMutex

	messages []domain.Message

	AppendCalls     []domain.Message
	ListByChatCalls []string

	AppendError     error
	ListByChatError error

	// Now lets tests control the server-assigned timestamp.
	Now func() time.Time
}

var _ ports.MessageRepository = (*MockMessageRepository)(nil)

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{Now: time.Now}
}

// SeedMessage inserts a message as-is, keeping its timestamp.
func (m *MockMessageRepository) SeedMessage(msg domain.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *MockMessageRepository) Append(ctx context.Context, msg domain.Message) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls = append(m.AppendCalls, msg)

	if m.AppendError != nil {
		return nil, m.AppendError
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = m.Now()
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *MockMessageRepository) ListByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListByChatCalls = append(m.ListByChatCalls, chatID)

	if m.ListByChatError != nil {
		return nil, m.ListByChatError
	}

	msgs := []domain.Message{}
	for _, msg := range m.messages {
		if msg.ChatID == chatID {
			msgs = append(msgs, msg)
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
	return msgs, nil
}
