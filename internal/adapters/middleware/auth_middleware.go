package middleware

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
	blacklist ports.TokenBlacklist
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, blacklist ports.TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
		blacklist: blacklist,
	}
}

type contextKey string

const (
	IdentityKey contextKey = "identity"
	RoleKey     contextKey = "role"
	TokenKey    contextKey = "token"
)

// IdentityFromContext returns the authenticated identity stashed by
// Authenticate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(domain.Identity)
	return id, ok
}

func RoleFromContext(ctx context.Context) domain.Role {
	role, _ := ctx.Value(RoleKey).(domain.Role)
	return role
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

// Authenticate validates the bearer token and stashes identity, role, and
// the raw token in the request context. The role claim may be empty when the
// profile was unreadable at login; that is a valid session, just unresolved.
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}
		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil || !token.Valid {
			log.Printf("auth middleware: token rejected: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			http.Error(w, "invalid token: missing user ID", http.StatusUnauthorized)
			return
		}
		email, _ := claims["email"].(string)
		roleClaim, _ := claims["role"].(string)

		if m.blacklist != nil {
			sum := sha256.Sum256([]byte(tokenString))
			revoked, err := m.blacklist.IsRevoked(r.Context(), hex.EncodeToString(sum[:]))
			if err != nil {
				log.Printf("auth middleware: blacklist check failed, allowing token: %v", err)
			} else if revoked {
				http.Error(w, "token revoked", http.StatusUnauthorized)
				return
			}
		}

		ctx := context.WithValue(r.Context(), IdentityKey, domain.Identity{ID: userID, Email: email})
		ctx = context.WithValue(ctx, RoleKey, domain.Role(roleClaim))
		ctx = context.WithValue(ctx, TokenKey, tokenString)

		next(w, r.WithContext(ctx))
	}
}

// RequireRole authenticates and then checks the role claim against the
// allowed set. An empty role claim is an unresolved role: its own state,
// refused explicitly rather than falling through to any default.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		role := RoleFromContext(r.Context())
		if !role.Known() {
			http.Error(w, "role not assigned", http.StatusForbidden)
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				next(w, r)
				return
			}
		}
		log.Printf("auth middleware: role %q not in %v for %s", role, roles, r.URL.Path)
		http.Error(w, "forbidden", http.StatusForbidden)
	})
}
