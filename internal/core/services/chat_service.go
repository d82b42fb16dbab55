package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

type ChatService struct {
	messages ports.MessageRepository
	bus      ports.ChangeBus
}

var _ ports.ChatService = (*ChatService)(nil)

func NewChatService(messages ports.MessageRepository, bus ports.ChangeBus) *ChatService {
	return &ChatService{
		messages: messages,
		bus:      bus,
	}
}

// ResolveChatID maps the caller to a conversation key. A parent's key is
// always their own id; passing someone else's id is refused rather than
// silently rewritten. Teachers address a family through the parentId
// parameter. An unresolved role gets no key at all.
func (s *ChatService) ResolveChatID(session domain.Session, parentIDParam string) (string, error) {
	switch session.Role {
	case domain.RoleParent:
		if parentIDParam != "" && parentIDParam != session.Identity.ID {
			return "", domain.ErrForbidden
		}
		return session.Identity.ID, nil
	case domain.RoleTeacher, domain.RoleAdmin:
		if parentIDParam == "" {
			return "", fmt.Errorf("%w: missing parent id", domain.ErrForbidden)
		}
		return parentIDParam, nil
	default:
		return "", domain.ErrRoleUnresolved
	}
}

// Send appends one message to the log with a server-assigned timestamp.
func (s *ChatService) Send(ctx context.Context, session domain.Session, chatID, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}

	msg := domain.Message{
		ChatID:     chatID,
		Text:       text,
		SenderID:   session.Identity.ID,
		SenderName: session.DisplayName(),
		Role:       session.Role,
	}
	saved, err := s.messages.Append(ctx, msg)
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, ports.ChatChannel(chatID)); err != nil {
		log.Printf("chat: change signal for %s not delivered: %v", chatID, err)
	}
	return saved, nil
}

// History returns every message for the key ordered by creation time.
func (s *ChatService) History(ctx context.Context, chatID string) ([]domain.Message, error) {
	return s.messages.ListByChat(ctx, chatID)
}

// Watch emits the full ordered history immediately and again after every
// change signal for the key. Consumers re-render wholesale; there is no
// incremental diff contract.
func (s *ChatService) Watch(ctx context.Context, chatID string) (<-chan []domain.Message, error) {
	notify, err := s.bus.Subscribe(ctx, ports.ChatChannel(chatID))
	if err != nil {
		return nil, err
	}

	out := make(chan []domain.Message, 1)
	go func() {
		defer close(out)

		send := func() bool {
			msgs, err := s.messages.ListByChat(ctx, chatID)
			if err != nil {
				log.Printf("chat: history re-read for %s failed: %v", chatID, err)
				return ctx.Err() == nil
			}
			select {
			case out <- msgs:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send() {
			return
		}
		for {
			select {
			case _, ok := <-notify:
				if !ok {
					return
				}
				if !send() {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
