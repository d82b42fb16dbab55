package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mirasur/agenda-service/internal/adapters/middleware"
	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Get is the point read for one (student, date) key. Parents may only read
// their own child's agenda; an absent document is the 404 empty state.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("studentID")
	date := r.PathValue("date")

	identity, _ := middleware.IdentityFromContext(r.Context())
	role := middleware.RoleFromContext(r.Context())
	if role == domain.RoleParent && studentID != identity.ID {
		writeDomainError(w, domain.ErrForbidden)
		return
	}

	report, err := h.reports.Get(r.Context(), studentID, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("ETag", strconv.FormatInt(report.Version, 10))
	writeJSON(w, http.StatusOK, report)
}

// Save replaces the whole document for the key. Without If-Match the last
// write wins; with If-Match carrying the last-seen version, stale writes
// come back 409. Route-level middleware restricts this to teachers.
func (h *ReportHandler) Save(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("studentID")
	date := r.PathValue("date")

	var report domain.DailyReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var expectedVersion int64
	if match := r.Header.Get("If-Match"); match != "" {
		v, err := strconv.ParseInt(match, 10, 64)
		if err != nil || v <= 0 {
			http.Error(w, "invalid If-Match header", http.StatusBadRequest)
			return
		}
		expectedVersion = v
	}

	saved, err := h.reports.Save(r.Context(), studentID, date, report, expectedVersion)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("ETag", strconv.FormatInt(saved.Version, 10))
	writeJSON(w, http.StatusOK, saved)
}
