package handler

import (
	"net/http"

	"github.com/mirasur/agenda-service/internal/core/ports"
)

// RosterHandler backs the teacher dashboard: the list of registered parent
// profiles to navigate into agendas and chats.
type RosterHandler struct {
	users ports.UserRepository
}

func NewRosterHandler(users ports.UserRepository) *RosterHandler {
	return &RosterHandler{users: users}
}

func (h *RosterHandler) ListParents(w http.ResponseWriter, r *http.Request) {
	parents, err := h.users.ListParents(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parents)
}
