package services

import (
	"context"
	"fmt"
	"log"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

type ReportService struct {
	reports ports.ReportRepository
	bus     ports.ChangeBus
}

var _ ports.ReportService = (*ReportService)(nil)

func NewReportService(reports ports.ReportRepository, bus ports.ChangeBus) *ReportService {
	return &ReportService{
		reports: reports,
		bus:     bus,
	}
}

// Get performs one point read for the key. Absent documents surface as
// domain.ErrNotFound so the caller can render the empty state.
func (s *ReportService) Get(ctx context.Context, studentID, date string) (*domain.DailyReport, error) {
	if !domain.ValidReportDate(date) {
		return nil, fmt.Errorf("%w: date %q", domain.ErrInvalidReport, date)
	}
	return s.reports.Read(ctx, studentID, date)
}

// Save replaces the whole document for the key with a server-assigned update
// timestamp. There is no merge: whatever was stored before is gone.
// expectedVersion == 0 keeps last-write-wins; > 0 rejects stale writes.
func (s *ReportService) Save(
	ctx context.Context,
	studentID, date string,
	report domain.DailyReport,
	expectedVersion int64,
) (*domain.DailyReport, error) {
	if !domain.ValidReportDate(date) {
		return nil, fmt.Errorf("%w: date %q", domain.ErrInvalidReport, date)
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	if report.Hygiene.Diapers == nil {
		report.Hygiene.Diapers = []domain.DiaperChange{}
	}

	saved, err := s.reports.Replace(ctx, studentID, date, report, expectedVersion)
	if err != nil {
		return nil, err
	}

	// Live viewers re-read on signal; a lost signal only delays them, so a
	// bus failure never fails the save.
	if err := s.bus.Publish(ctx, ports.ReportChannel(studentID, date)); err != nil {
		log.Printf("report: change signal for %s/%s not delivered: %v", studentID, date, err)
	}
	return saved, nil
}
