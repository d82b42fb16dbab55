package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mirasur/agenda-service/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("handler: failed to write response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeDomainError maps the error taxonomy to HTTP statuses. Credential
// errors carry the localized messages the clients show directly; everything
// unrecognized passes through as a generic failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Contraseña incorrecta.", Code: "invalid_credentials"})
	case errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Usuario no encontrado.", Code: "user_not_found"})
	case errors.Is(err, domain.ErrTooManyAttempts):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Demasiados intentos fallidos. Intenta más tarde.", Code: "rate_limited"})
	case errors.Is(err, domain.ErrEmailInUse):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "El correo ya está registrado.", Code: "email_in_use"})
	case errors.Is(err, domain.ErrWeakPassword):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "La contraseña es demasiado débil.", Code: "weak_password"})
	case errors.Is(err, domain.ErrProfileWrite):
		// Distinct from credential-stage failures: the credential was
		// created and compensated for.
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "profile write failed, registration rolled back", Code: "profile_write_failed"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Code: "not_found"})
	case errors.Is(err, domain.ErrStaleWrite):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "stale_write"})
	case errors.Is(err, domain.ErrInvalidReport), errors.Is(err, domain.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_input"})
	case errors.Is(err, domain.ErrRoleUnresolved):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "role not assigned", Code: "role_unresolved"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden", Code: "forbidden"})
	default:
		log.Printf("handler: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal"})
	}
}
