package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

// ReportRepository stores one JSONB document per (student_id, report_date)
// key. Saves replace the whole document; version and updated_at live in
// their own columns and are authoritative over anything inside the doc.
type ReportRepository struct {
	db *sql.DB
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Read(ctx context.Context, studentID, date string) (*domain.DailyReport, error) {
	var doc []byte
	var version int64
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx,
		"SELECT doc, version, updated_at FROM daily_reports WHERE student_id = $1 AND report_date = $2",
		studentID, date,
	).Scan(&doc, &version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var report domain.DailyReport
	if err := json.Unmarshal(doc, &report); err != nil {
		return nil, err
	}
	report.Version = version
	report.UpdatedAt = updatedAt
	if report.Hygiene.Diapers == nil {
		report.Hygiene.Diapers = []domain.DiaperChange{}
	}
	return &report, nil
}

func (r *ReportRepository) Replace(
	ctx context.Context,
	studentID, date string,
	report domain.DailyReport,
	expectedVersion int64,
) (*domain.DailyReport, error) {
	doc, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}

	var version int64
	var updatedAt time.Time

	if expectedVersion > 0 {
		// Compare-and-swap: only replace the version the caller last saw.
		err = r.db.QueryRowContext(ctx, `
			UPDATE daily_reports
			SET doc = $3, version = version + 1, updated_at = NOW()
			WHERE student_id = $1 AND report_date = $2 AND version = $4
			RETURNING version, updated_at`,
			studentID, date, doc, expectedVersion,
		).Scan(&version, &updatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStaleWrite
		}
	} else {
		// Last write wins: the incoming document unconditionally replaces
		// whatever is stored, no field-level merge.
		err = r.db.QueryRowContext(ctx, `
			INSERT INTO daily_reports (student_id, report_date, doc, version, updated_at)
			VALUES ($1, $2, $3, 1, NOW())
			ON CONFLICT (student_id, report_date)
			DO UPDATE SET doc = EXCLUDED.doc, version = daily_reports.version + 1, updated_at = NOW()
			RETURNING version, updated_at`,
			studentID, date, doc,
		).Scan(&version, &updatedAt)
	}
	if err != nil {
		return nil, err
	}

	report.Version = version
	report.UpdatedAt = updatedAt
	return &report, nil
}
