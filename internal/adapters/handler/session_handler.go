package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/mirasur/agenda-service/internal/adapters/middleware"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get returns the caller's current session snapshot: identity merged with
// the profile document, role possibly unresolved.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.Resolve(r.Context(), identity))
}

// Stream pushes a session snapshot on connect and after every profile
// change, as server-sent events. The profile subscription lives exactly as
// long as the request.
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	updates, err := h.sessions.Watch(r.Context(), identity)
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
		case session, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.SendJSON(session); err != nil {
				log.Printf("session stream: client gone: %v", err)
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
