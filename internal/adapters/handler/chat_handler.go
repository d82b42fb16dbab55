package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/mirasur/agenda-service/internal/adapters/middleware"
	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

type ChatHandler struct {
	chat     ports.ChatService
	sessions ports.SessionService
}

func NewChatHandler(chat ports.ChatService, sessions ports.SessionService) *ChatHandler {
	return &ChatHandler{
		chat:     chat,
		sessions: sessions,
	}
}

// resolveChat turns the authenticated caller plus the parentID path value
// into a conversation key. Parents always land on their own key; teachers
// address the family in the path.
func (h *ChatHandler) resolveChat(r *http.Request) (domain.Session, string, error) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	session := h.sessions.Resolve(r.Context(), identity)
	chatID, err := h.chat.ResolveChatID(session, r.PathValue("parentID"))
	return session, chatID, err
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	_, chatID, err := h.resolveChat(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	msgs, err := h.chat.History(r.Context(), chatID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	session, chatID, err := h.resolveChat(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.chat.Send(r.Context(), session, chatID, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// Stream sends the full ordered conversation on connect and again after
// every change, as server-sent events. The subscription is released when
// the client disconnects.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	_, chatID, err := h.resolveChat(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	updates, err := h.chat.Watch(r.Context(), chatID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case msgs, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.SendJSON(msgs); err != nil {
				log.Printf("chat stream: client gone: %v", err)
				return
			}
		case <-heartbeat.C:
			if err := sse.Ping(); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
