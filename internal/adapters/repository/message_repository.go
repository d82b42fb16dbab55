package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

type MessageRepository struct {
	db *sql.DB
}

var _ ports.MessageRepository = (*MessageRepository)(nil)

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append inserts one message with a server-assigned creation time.
// Messages are never updated or deleted.
func (r *MessageRepository) Append(ctx context.Context, msg domain.Message) (*domain.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (id, chat_id, text, sender_id, sender_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`,
		msg.ID, msg.ChatID, msg.Text, msg.SenderID, msg.SenderName, msg.Role,
	).Scan(&msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByChat returns the conversation ordered by creation time ascending.
// The id tiebreak keeps the order stable when two messages share a
// timestamp.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, text, sender_id, sender_name, role, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at, id`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Text, &m.SenderID, &m.SenderName, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
