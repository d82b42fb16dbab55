package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
	"github.com/mirasur/agenda-service/internal/core/services"
	"github.com/mirasur/agenda-service/test/mocks"
)

// A missing report surfaces as the empty state after exactly one read.
func TestReportService_Get_EmptyState(t *testing.T) {
	repo := mocks.NewMockReportRepository()
	svc := services.NewReportService(repo, mocks.NewMockChangeBus())

	_, err := svc.Get(context.Background(), "student-1", "2024-03-15")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(repo.ReadCalls) != 1 {
		t.Errorf("expected exactly one read, got %d", len(repo.ReadCalls))
	}
}

func TestReportService_Get_InvalidDate(t *testing.T) {
	repo := mocks.NewMockReportRepository()
	svc := services.NewReportService(repo, mocks.NewMockChangeBus())

	_, err := svc.Get(context.Background(), "student-1", "15/03/2024")
	if !errors.Is(err, domain.ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}
	if len(repo.ReadCalls) != 0 {
		t.Error("invalid date must not reach the repository")
	}
}

// Saving and re-reading the same key returns exactly the last-written
// document, with no fields surviving from earlier versions.
func TestReportService_Save_LastWriteWins(t *testing.T) {
	repo := mocks.NewMockReportRepository()
	svc := services.NewReportService(repo, mocks.NewMockChangeBus())
	ctx := context.Background()

	first := domain.EmptyReport()
	first.Food.First = domain.Course{Dish: "Lentejas", Amount: domain.AmountTodo}
	first.Notes = "primera versión"
	_ = mustSave(t, svc, ctx, "student-1", "2024-03-15", first)

	second := domain.EmptyReport()
	second.Sleep = domain.Sleep{Start: "13:00", End: "14:00", Quality: domain.SleepNormal}
	saved := mustSave(t, svc, ctx, "student-1", "2024-03-15", second)

	got, err := svc.Get(ctx, "student-1", "2024-03-15")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Notes != "" || got.Food.First.Dish != "" {
		t.Errorf("fields from the overwritten document leaked through: %+v", got)
	}
	if got.Sleep.Start != "13:00" {
		t.Errorf("expected last-written sleep start, got %q", got.Sleep.Start)
	}
	if got.Version != saved.Version {
		t.Errorf("expected version %d, got %d", saved.Version, got.Version)
	}
}

func TestReportService_Save_VersionCheck(t *testing.T) {
	repo := mocks.NewMockReportRepository()
	svc := services.NewReportService(repo, mocks.NewMockChangeBus())
	ctx := context.Background()

	saved := mustSave(t, svc, ctx, "student-1", "2024-03-15", domain.EmptyReport())
	if saved.Version != 1 {
		t.Fatalf("expected version 1, got %d", saved.Version)
	}

	// A concurrent editor bumps the version.
	mustSave(t, svc, ctx, "student-1", "2024-03-15", domain.EmptyReport())

	_, err := svc.Save(ctx, "student-1", "2024-03-15", domain.EmptyReport(), saved.Version)
	if !errors.Is(err, domain.ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite for stale version, got %v", err)
	}

	// Without a version the write is unconditional.
	if _, err := svc.Save(ctx, "student-1", "2024-03-15", domain.EmptyReport(), 0); err != nil {
		t.Fatalf("unconditional save: %v", err)
	}
}

func TestReportService_Save_RejectsBadEnums(t *testing.T) {
	repo := mocks.NewMockReportRepository()
	svc := services.NewReportService(repo, mocks.NewMockChangeBus())

	report := domain.EmptyReport()
	report.Food.Dessert.Amount = "Muchísimo"

	_, err := svc.Save(context.Background(), "student-1", "2024-03-15", report, 0)
	if !errors.Is(err, domain.ErrInvalidReport) {
		t.Fatalf("expected ErrInvalidReport, got %v", err)
	}
	if len(repo.ReplaceCalls) != 0 {
		t.Error("invalid report must not be persisted")
	}
}

func TestReportService_Save_SignalsChange(t *testing.T) {
	repo := mocks.NewMockReportRepository()
	bus := mocks.NewMockChangeBus()
	svc := services.NewReportService(repo, bus)

	mustSave(t, svc, context.Background(), "student-1", "2024-03-15", domain.EmptyReport())

	want := ports.ReportChannel("student-1", "2024-03-15")
	if len(bus.PublishCalls) != 1 || bus.PublishCalls[0] != want {
		t.Errorf("expected one publish on %q, got %v", want, bus.PublishCalls)
	}
}

// A broken change bus delays live viewers but never fails the save.
func TestReportService_Save_BusFailureDoesNotFailSave(t *testing.T) {
	repo := mocks.NewMockReportRepository()
	bus := mocks.NewMockChangeBus()
	bus.PublishError = errors.New("redis down")
	svc := services.NewReportService(repo, bus)

	if _, err := svc.Save(context.Background(), "student-1", "2024-03-15", domain.EmptyReport(), 0); err != nil {
		t.Fatalf("save must succeed despite bus failure, got %v", err)
	}
}

func mustSave(t *testing.T, svc ports.ReportService, ctx context.Context, studentID, date string, r domain.DailyReport) *domain.DailyReport {
	t.Helper()
	saved, err := svc.Save(ctx, studentID, date, r, 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return saved
}
