package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

const minPasswordLength = 6

type RegistrationService struct {
	identities ports.IdentityStore
	userRepo   ports.UserRepository
}

var _ ports.RegistrationService = (*RegistrationService)(nil)

func NewRegistrationService(identities ports.IdentityStore, userRepo ports.UserRepository) *RegistrationService {
	return &RegistrationService{
		identities: identities,
		userRepo:   userRepo,
	}
}

// Register creates a credential and then the matching profile document.
// The two stores are independent, so the sequence is compensating rather
// than transactional: a profile-stage failure deletes the just-created
// credential instead of leaving an orphaned login without a role.
func (s *RegistrationService) Register(
	ctx context.Context,
	email, password, name string,
	role domain.Role,
) (domain.Identity, error) {
	if role != domain.RoleParent && role != domain.RoleTeacher {
		return domain.Identity{}, fmt.Errorf("unsupported role %q", role)
	}
	if len(password) < minPasswordLength {
		return domain.Identity{}, domain.ErrWeakPassword
	}

	id := uuid.NewString()
	if err := s.identities.CreateCredential(ctx, id, email, password); err != nil {
		return domain.Identity{}, err
	}

	user := domain.User{
		ID:        id,
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(ports.FamilyRegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	})
	if err != nil {
		s.compensate(ctx, id)
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrProfileWrite, err)
	}

	if err := s.userRepo.CreateProfile(ctx, user, payload); err != nil {
		s.compensate(ctx, id)
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrProfileWrite, err)
	}

	return domain.Identity{ID: id, Email: email}, nil
}

func (s *RegistrationService) compensate(ctx context.Context, id string) {
	if err := s.identities.DeleteCredential(ctx, id); err != nil {
		// The orphan survives; flag it loudly for manual correction.
		log.Printf("registration: COMPENSATION FAILED, orphaned credential %s: %v", id, err)
	}
}
