package services

import (
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

const tokenLifetime = 24 * time.Hour

type AuthService struct {
	identities ports.IdentityStore
	userRepo   ports.UserRepository
	blacklist  ports.TokenBlacklist
	limiter    ports.LoginLimiter
	privateKey *rsa.PrivateKey
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(
	identities ports.IdentityStore,
	userRepo ports.UserRepository,
	blacklist ports.TokenBlacklist,
	limiter ports.LoginLimiter,
	privateKey *rsa.PrivateKey,
) *AuthService {
	return &AuthService{
		identities: identities,
		userRepo:   userRepo,
		blacklist:  blacklist,
		limiter:    limiter,
		privateKey: privateKey,
	}
}

// Login validates credentials and returns a signed session token. The role
// claim comes from the profile document; a missing profile still yields a
// token, with the role left empty for the middleware to treat as unresolved.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			log.Printf("auth: login limiter unavailable, allowing attempt: %v", err)
		} else if !ok {
			return "", domain.ErrTooManyAttempts
		}
	}

	identity, err := s.identities.Authenticate(ctx, email, password)
	if err != nil {
		if s.limiter != nil && (errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotFound)) {
			if lerr := s.limiter.RecordFailure(ctx, email); lerr != nil {
				log.Printf("auth: failed to record login failure: %v", lerr)
			}
		}
		return "", err
	}

	role := domain.RoleUnknown
	if profile, perr := s.userRepo.FindByID(ctx, identity.ID); perr == nil {
		role = profile.Role
	} else if !errors.Is(perr, domain.ErrNotFound) {
		log.Printf("auth: profile read failed for %s, issuing role-less token: %v", identity.ID, perr)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   now.Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}

// Logout revokes the presented token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return &s.privateKey.PublicKey, nil
	})
	if err != nil || !parsed.Valid {
		return domain.ErrInvalidCredentials
	}

	ttl := tokenLifetime
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		if remaining := time.Until(exp.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return s.blacklist.Revoke(ctx, HashToken(token), ttl)
}

// HashToken is the blacklist key for a raw token. Stored hashed so a leaked
// blacklist cannot be replayed.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
