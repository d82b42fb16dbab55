package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

// resolveTimeout caps how long a session resolution may wait on the profile
// store before degrading to an identity-only session. It does not
// distinguish slow from broken.
const resolveTimeout = 5 * time.Second

type SessionService struct {
	userRepo ports.UserRepository
	bus      ports.ChangeBus
}

var _ ports.SessionService = (*SessionService)(nil)

func NewSessionService(userRepo ports.UserRepository, bus ports.ChangeBus) *SessionService {
	return &SessionService{
		userRepo: userRepo,
		bus:      bus,
	}
}

// Resolve merges the identity with its profile document. A missing or
// unreadable profile degrades to an identity-only session with the role
// unresolved; it never blocks the caller past the watchdog timeout.
func (s *SessionService) Resolve(ctx context.Context, id domain.Identity) domain.Session {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	profile, err := s.userRepo.FindByID(ctx, id.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("session: profile read failed for %s, degrading: %v", id.ID, err)
		}
		return domain.NewSession(id, nil)
	}
	return domain.NewSession(id, profile)
}

// Watch emits the current session immediately and a fresh snapshot after
// every change to the profile document. The subscription is torn down when
// ctx is cancelled and the returned channel is closed.
func (s *SessionService) Watch(ctx context.Context, id domain.Identity) (<-chan domain.Session, error) {
	notify, err := s.bus.Subscribe(ctx, ports.UserChannel(id.ID))
	if err != nil {
		return nil, err
	}

	out := make(chan domain.Session, 1)
	go func() {
		defer close(out)

		send := func(sess domain.Session) bool {
			select {
			case out <- sess:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send(s.Resolve(ctx, id)) {
			return
		}
		for {
			select {
			case _, ok := <-notify:
				if !ok {
					return
				}
				if !send(s.Resolve(ctx, id)) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
