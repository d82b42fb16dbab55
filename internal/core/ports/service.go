package ports

import (
	"context"

	"github.com/mirasur/agenda-service/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
}

type RegistrationService interface {
	Register(ctx context.Context, email, password, name string, role domain.Role) (domain.Identity, error)
}

// SessionService resolves an authenticated identity into a session and,
// for live consumers, keeps the session current as the profile changes.
type SessionService interface {
	Resolve(ctx context.Context, id domain.Identity) domain.Session
	// Watch emits the current session and then a fresh snapshot on every
	// profile change, until ctx is cancelled. The stream is closed on
	// teardown; at most one profile subscription is live per watcher.
	Watch(ctx context.Context, id domain.Identity) (<-chan domain.Session, error)
}

type ReportService interface {
	Get(ctx context.Context, studentID, date string) (*domain.DailyReport, error)
	// Save replaces the whole document for the key. expectedVersion == 0
	// is plain last-write-wins; > 0 rejects stale writes.
	Save(ctx context.Context, studentID, date string, report domain.DailyReport, expectedVersion int64) (*domain.DailyReport, error)
}

type ChatService interface {
	// ResolveChatID maps a session plus an optional route parameter to the
	// conversation key: parents always get their own id, teachers take the
	// parameter.
	ResolveChatID(session domain.Session, parentIDParam string) (string, error)
	Send(ctx context.Context, session domain.Session, chatID, text string) (*domain.Message, error)
	History(ctx context.Context, chatID string) ([]domain.Message, error)
	// Watch emits the full ordered history now and again after every
	// change notification for the chat key.
	Watch(ctx context.Context, chatID string) (<-chan []domain.Message, error)
}
