package ports

import (
	"context"

	"github.com/mirasur/agenda-service/internal/core/domain"
)

// IdentityStore is the credential side of the system. It is deliberately a
// separate store from UserRepository: a credential can exist without a
// profile (the orphan case registration has to compensate for).
type IdentityStore interface {
	CreateCredential(ctx context.Context, id, email, password string) error
	DeleteCredential(ctx context.Context, id string) error
	Authenticate(ctx context.Context, email, password string) (domain.Identity, error)
}

// UserRepository stores profile documents, one per identity.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListParents(ctx context.Context) ([]domain.User, error)
	// CreateProfile inserts the profile and, in the same transaction, an
	// outbox event row for the relay to publish.
	CreateProfile(ctx context.Context, user domain.User, outboxPayload []byte) error
}

// ReportRepository stores one agenda document per (studentID, date) key.
type ReportRepository interface {
	// Read returns domain.ErrNotFound when no document exists for the key.
	Read(ctx context.Context, studentID, date string) (*domain.DailyReport, error)
	// Replace overwrites the whole document. expectedVersion > 0 demands
	// the stored version matches (domain.ErrStaleWrite otherwise);
	// expectedVersion == 0 is an unconditional last-write-wins save.
	Replace(ctx context.Context, studentID, date string, report domain.DailyReport, expectedVersion int64) (*domain.DailyReport, error)
}

// MessageRepository is the append-only conversation log.
type MessageRepository interface {
	Append(ctx context.Context, msg domain.Message) (*domain.Message, error)
	// ListByChat returns all messages for the key ordered by creation time
	// ascending, message id breaking ties.
	ListByChat(ctx context.Context, chatID string) ([]domain.Message, error)
}
