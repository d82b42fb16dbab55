package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mirasur/agenda-service/internal/adapters/handler"
	"github.com/mirasur/agenda-service/internal/core/services"
	"github.com/mirasur/agenda-service/test/mocks"
)

func newRegistrationHandler() (*handler.RegistrationHandler, *mocks.MockIdentityStore, *mocks.MockUserRepository) {
	identities := mocks.NewMockIdentityStore()
	users := mocks.NewMockUserRepository()
	svc := services.NewRegistrationService(identities, users)
	return handler.NewRegistrationHandler(svc), identities, users
}

func postRegister(h *handler.RegistrationHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/register", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	return rec
}

func TestRegistrationHandler_Register(t *testing.T) {
	h, identities, users := newRegistrationHandler()

	rec := postRegister(h, `{"email":"ana@example.com","password":"secreto1","name":"Ana","role":"parent"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handler.RegistrationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID == "" {
		t.Fatal("expected a user id in the response")
	}
	if !identities.HasCredential(resp.UserID) {
		t.Error("credential was not created")
	}
	if len(users.CreateProfileCalls) != 1 {
		t.Errorf("expected one profile write, got %d", len(users.CreateProfileCalls))
	}
}

func TestRegistrationHandler_Register_UnsupportedRole(t *testing.T) {
	h, identities, _ := newRegistrationHandler()

	for _, role := range []string{"admin", "visitor", ""} {
		rec := postRegister(h, `{"email":"a@example.com","password":"secreto1","name":"A","role":"`+role+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("role %q: expected 400, got %d", role, rec.Code)
		}
	}
	if len(identities.CreateCredentialCalls) != 0 {
		t.Error("rejected roles must not reach the credential store")
	}
}

func TestRegistrationHandler_Register_WeakPassword(t *testing.T) {
	h, _, _ := newRegistrationHandler()

	rec := postRegister(h, `{"email":"a@example.com","password":"corta","name":"A","role":"parent"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "weak_password" {
		t.Errorf("expected weak_password code, got %q", resp.Code)
	}
}

func TestRegistrationHandler_Register_DuplicateEmail(t *testing.T) {
	h, identities, _ := newRegistrationHandler()
	identities.SeedCredential("existing", "ana@example.com", "secreto1")

	rec := postRegister(h, `{"email":"ana@example.com","password":"secreto1","name":"Ana","role":"parent"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

// A profile-stage failure responds with its own code so the client knows the
// credential did not survive either.
func TestRegistrationHandler_Register_ProfileFailure(t *testing.T) {
	h, _, users := newRegistrationHandler()
	users.CreateProfileError = errors.New("document store unavailable")

	rec := postRegister(h, `{"email":"ana@example.com","password":"secreto1","name":"Ana","role":"parent"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "profile_write_failed" {
		t.Errorf("expected profile_write_failed code, got %q", resp.Code)
	}
}

func TestRegistrationHandler_Register_MissingFields(t *testing.T) {
	h, _, _ := newRegistrationHandler()

	rec := postRegister(h, `{"password":"secreto1","role":"parent"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
