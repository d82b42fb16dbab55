package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

type RegistrationHandler struct {
	registrationService ports.RegistrationService
}

func NewRegistrationHandler(registration ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registration}
}

type RegistrationRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type RegistrationResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	role := domain.Role(req.Role)
	if role != domain.RoleParent && role != domain.RoleTeacher {
		http.Error(w, "Unsupported role", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Name == "" {
		http.Error(w, "email and name are required", http.StatusBadRequest)
		return
	}

	identity, err := h.registrationService.Register(r.Context(), req.Email, req.Password, req.Name, role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, RegistrationResponse{
		Message: "User registered successfully",
		UserID:  identity.ID,
	})
}
