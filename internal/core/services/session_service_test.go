package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
	"github.com/mirasur/agenda-service/internal/core/services"
	"github.com/mirasur/agenda-service/test/mocks"
)

func TestSessionService_Resolve(t *testing.T) {
	users := mocks.NewMockUserRepository()
	users.SeedUser(&domain.User{ID: "u1", Email: "ana@example.com", Name: "Ana", Role: domain.RoleParent})
	svc := services.NewSessionService(users, mocks.NewMockChangeBus())

	session := svc.Resolve(context.Background(), domain.Identity{ID: "u1", Email: "ana@example.com"})
	if session.Role != domain.RoleParent {
		t.Errorf("expected parent role, got %q", session.Role)
	}
	if session.Profile == nil || session.Profile.Name != "Ana" {
		t.Errorf("expected merged profile, got %+v", session.Profile)
	}
}

// A missing profile degrades to an identity-only session instead of failing.
func TestSessionService_Resolve_MissingProfile(t *testing.T) {
	svc := services.NewSessionService(mocks.NewMockUserRepository(), mocks.NewMockChangeBus())

	session := svc.Resolve(context.Background(), domain.Identity{ID: "ghost", Email: "g@example.com"})
	if session.Profile != nil {
		t.Error("expected no profile")
	}
	if session.Role != domain.RoleUnknown {
		t.Errorf("expected unresolved role, got %q", session.Role)
	}
	if session.Identity.Email != "g@example.com" {
		t.Error("identity must survive the degradation")
	}
}

// A failing profile store degrades the same way; it never blocks the caller.
func TestSessionService_Resolve_ReadFailure(t *testing.T) {
	users := mocks.NewMockUserRepository()
	users.FindByIDError = errors.New("store unavailable")
	svc := services.NewSessionService(users, mocks.NewMockChangeBus())

	session := svc.Resolve(context.Background(), domain.Identity{ID: "u1"})
	if session.Profile != nil || session.Role != domain.RoleUnknown {
		t.Errorf("expected degraded session, got %+v", session)
	}
}

func TestSessionService_Watch(t *testing.T) {
	users := mocks.NewMockUserRepository()
	users.SeedUser(&domain.User{ID: "u1", Name: "Ana", Role: domain.RoleParent})
	bus := mocks.NewMockChangeBus()
	svc := services.NewSessionService(users, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := svc.Watch(ctx, domain.Identity{ID: "u1"})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	first := recvSession(t, updates)
	if first.Role != domain.RoleParent {
		t.Errorf("expected initial snapshot with parent role, got %q", first.Role)
	}

	// Profile changes; the watcher re-reads on signal.
	users.SeedUser(&domain.User{ID: "u1", Name: "Ana María", Role: domain.RoleParent})
	bus.Signal(ports.UserChannel("u1"))

	second := recvSession(t, updates)
	if second.Profile == nil || second.Profile.Name != "Ana María" {
		t.Errorf("expected refreshed profile, got %+v", second.Profile)
	}

	cancel()
	select {
	case _, ok := <-updates:
		if ok {
			// One buffered emission may still drain; the next receive
			// must observe the close.
			if _, ok := <-updates; ok {
				t.Error("expected stream to close after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}

	if len(bus.SubscribeCalls) != 1 || bus.SubscribeCalls[0] != ports.UserChannel("u1") {
		t.Errorf("expected one subscription on the user channel, got %v", bus.SubscribeCalls)
	}
}

func recvSession(t *testing.T, ch <-chan domain.Session) domain.Session {
	t.Helper()
	select {
	case s, ok := <-ch:
		if !ok {
			t.Fatal("stream closed unexpectedly")
		}
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for session update")
		return domain.Session{}
	}
}
