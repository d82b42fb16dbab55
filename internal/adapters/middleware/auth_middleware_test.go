package middleware_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mirasur/agenda-service/internal/adapters/middleware"
	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/services"
	"github.com/mirasur/agenda-service/test/mocks"
)

func generateTestKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return privateKey, &privateKey.PublicKey
}

func createTestToken(privateKey *rsa.PrivateKey, role string, expired bool) string {
	exp := time.Now().Add(time.Hour)
	if expired {
		exp = time.Now().Add(-time.Hour)
	}

	claims := jwt.MapClaims{
		"sub":   "user-123",
		"email": "test@example.com",
		"role":  role,
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, _ := token.SignedString(privateKey)
	return tokenString
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireRole_NoAuthHeader(t *testing.T) {
	_, publicKey := generateTestKeys(t)
	m := middleware.NewAuthMiddleware(publicKey, nil)

	handler := m.RequireRole([]domain.Role{domain.RoleTeacher}, okHandler)

	req := httptest.NewRequest("POST", "/register", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_InvalidHeaderFormat(t *testing.T) {
	_, publicKey := generateTestKeys(t)
	m := middleware.NewAuthMiddleware(publicKey, nil)

	handler := m.RequireRole([]domain.Role{domain.RoleTeacher}, okHandler)

	req := httptest.NewRequest("POST", "/register", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_ExpiredToken(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	m := middleware.NewAuthMiddleware(publicKey, nil)

	handler := m.RequireRole([]domain.Role{domain.RoleTeacher}, okHandler)

	req := httptest.NewRequest("POST", "/register", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "teacher", true))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_WrongRole(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	m := middleware.NewAuthMiddleware(publicKey, nil)

	handler := m.RequireRole([]domain.Role{domain.RoleTeacher}, okHandler)

	req := httptest.NewRequest("POST", "/register", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "parent", false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

// An empty role claim is its own state: refused on role-gated routes with a
// distinct message, never treated as parent.
func TestRequireRole_UnresolvedRole(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	m := middleware.NewAuthMiddleware(publicKey, nil)

	handler := m.RequireRole([]domain.Role{domain.RoleParent, domain.RoleTeacher}, okHandler)

	req := httptest.NewRequest("GET", "/students/u1/reports/2024-03-15", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "", false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for unresolved role, got %d", rec.Code)
	}
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	m := middleware.NewAuthMiddleware(publicKey, nil)

	var gotIdentity domain.Identity
	var gotRole domain.Role
	handler := m.RequireRole([]domain.Role{domain.RoleTeacher}, func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, _ = middleware.IdentityFromContext(r.Context())
		gotRole = middleware.RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/parents", nil)
	req.Header.Set("Authorization", "Bearer "+createTestToken(privateKey, "teacher", false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotIdentity.ID != "user-123" || gotIdentity.Email != "test@example.com" {
		t.Errorf("identity not in context: %+v", gotIdentity)
	}
	if gotRole != domain.RoleTeacher {
		t.Errorf("role not in context: %q", gotRole)
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	privateKey, publicKey := generateTestKeys(t)
	blacklist := mocks.NewMockTokenBlacklist()
	m := middleware.NewAuthMiddleware(publicKey, blacklist)

	token := createTestToken(privateKey, "parent", false)
	if err := blacklist.Revoke(context.Background(), services.HashToken(token), time.Hour); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	handler := m.Authenticate(okHandler)

	req := httptest.NewRequest("GET", "/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked token, got %d", rec.Code)
	}
}
