package domain

import (
	"errors"
	"testing"
)

func TestEmptyReport_Defaults(t *testing.T) {
	r := EmptyReport()

	if r.Food.First.Amount != AmountTodo || r.Food.Second.Amount != AmountTodo || r.Food.Dessert.Amount != AmountTodo {
		t.Errorf("expected all courses to default to %q", AmountTodo)
	}
	if r.Sleep.Quality != SleepTranquilo {
		t.Errorf("expected sleep quality %q, got %q", SleepTranquilo, r.Sleep.Quality)
	}
	if r.Hygiene.Diapers == nil || len(r.Hygiene.Diapers) != 0 {
		t.Errorf("expected empty (non-nil) diaper list, got %v", r.Hygiene.Diapers)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("empty report should validate, got %v", err)
	}
}

func TestDailyReport_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DailyReport)
		wantErr bool
	}{
		{"valid defaults", func(r *DailyReport) {}, false},
		{"valid full form", func(r *DailyReport) {
			r.Food.First = Course{Dish: "Lentejas", Amount: AmountMitad}
			r.Sleep = Sleep{Start: "13:00", End: "14:30", Quality: SleepNormal}
			r.Hygiene.Diapers = []DiaperChange{{Time: "10:00", Type: DiaperPis}}
			r.Notes = "Buen día"
		}, false},
		{"bad food amount", func(r *DailyReport) {
			r.Food.Second.Amount = "Bastante"
		}, true},
		{"bad sleep quality", func(r *DailyReport) {
			r.Sleep.Quality = "Regular"
		}, true},
		{"bad diaper type", func(r *DailyReport) {
			r.Hygiene.Diapers = []DiaperChange{{Time: "09:00", Type: "Mojado"}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := EmptyReport()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidReport) {
				t.Errorf("expected ErrInvalidReport, got %v", err)
			}
		})
	}
}

func TestDailyReport_AddDiaper(t *testing.T) {
	r := EmptyReport()

	if err := r.AddDiaper("10:00", DiaperPis); err != nil {
		t.Fatalf("AddDiaper: %v", err)
	}
	if err := r.AddDiaper("", DiaperCaca); err == nil {
		t.Error("expected error for missing time")
	}
	if err := r.AddDiaper("11:00", "Mojado"); err == nil {
		t.Error("expected error for unknown type")
	}
	if len(r.Hygiene.Diapers) != 1 {
		t.Errorf("expected 1 entry, got %d", len(r.Hygiene.Diapers))
	}
}

// Appending then removing by the entry's current index must restore the
// original length, and removing index i must remove the entry currently at
// position i, never a stale position.
func TestDailyReport_RemoveDiaper_Positional(t *testing.T) {
	r := EmptyReport()
	for _, d := range []DiaperChange{
		{Time: "09:00", Type: DiaperPis},
		{Time: "11:00", Type: DiaperCaca},
		{Time: "13:00", Type: DiaperSeco},
	} {
		if err := r.AddDiaper(d.Time, d.Type); err != nil {
			t.Fatalf("AddDiaper: %v", err)
		}
	}

	before := len(r.Hygiene.Diapers)
	if err := r.AddDiaper("15:00", DiaperPisCaca); err != nil {
		t.Fatalf("AddDiaper: %v", err)
	}
	if err := r.RemoveDiaper(len(r.Hygiene.Diapers) - 1); err != nil {
		t.Fatalf("RemoveDiaper: %v", err)
	}
	if len(r.Hygiene.Diapers) != before {
		t.Errorf("expected length %d after append+remove, got %d", before, len(r.Hygiene.Diapers))
	}

	// Remove the middle entry, then index 1 again: it must hit the entry
	// that shifted into position 1, not the removed one's old neighbor.
	if err := r.RemoveDiaper(1); err != nil {
		t.Fatalf("RemoveDiaper: %v", err)
	}
	if r.Hygiene.Diapers[1].Time != "13:00" {
		t.Errorf("expected 13:00 at position 1 after removal, got %s", r.Hygiene.Diapers[1].Time)
	}
	if err := r.RemoveDiaper(1); err != nil {
		t.Fatalf("RemoveDiaper: %v", err)
	}
	if len(r.Hygiene.Diapers) != 1 || r.Hygiene.Diapers[0].Time != "09:00" {
		t.Errorf("unexpected remaining entries: %v", r.Hygiene.Diapers)
	}
}

func TestDailyReport_RemoveDiaper_OutOfRange(t *testing.T) {
	r := EmptyReport()
	if err := r.RemoveDiaper(0); err == nil {
		t.Error("expected error removing from empty list")
	}
	_ = r.AddDiaper("10:00", DiaperPis)
	if err := r.RemoveDiaper(-1); err == nil {
		t.Error("expected error for negative index")
	}
	if err := r.RemoveDiaper(1); err == nil {
		t.Error("expected error for index past end")
	}
}

func TestValidReportDate(t *testing.T) {
	valid := []string{"2024-01-01", "2024-12-31", "2000-02-29"}
	invalid := []string{"", "2024-1-1", "01-01-2024", "2024-13-01", "2024-02-30", "hoy"}

	for _, d := range valid {
		if !ValidReportDate(d) {
			t.Errorf("expected %q to be valid", d)
		}
	}
	for _, d := range invalid {
		if ValidReportDate(d) {
			t.Errorf("expected %q to be invalid", d)
		}
	}
}

func TestRole_Known(t *testing.T) {
	for _, r := range []Role{RoleParent, RoleTeacher, RoleAdmin} {
		if !r.Known() {
			t.Errorf("expected role %q to be known", r)
		}
	}
	if RoleUnknown.Known() {
		t.Error("unresolved role must not count as known")
	}
	if Role("visitor").Known() {
		t.Error("arbitrary role must not count as known")
	}
}

func TestSession_Merge(t *testing.T) {
	id := Identity{ID: "u1", Email: "ana@example.com"}

	degraded := NewSession(id, nil)
	if degraded.Role != RoleUnknown {
		t.Errorf("expected unresolved role, got %q", degraded.Role)
	}
	if degraded.DisplayName() != "Usuario" {
		t.Errorf("expected fallback display name, got %q", degraded.DisplayName())
	}

	full := NewSession(id, &User{ID: "u1", Name: "Ana", Role: RoleParent})
	if full.Role != RoleParent {
		t.Errorf("expected parent role, got %q", full.Role)
	}
	if full.DisplayName() != "Ana" {
		t.Errorf("expected profile name, got %q", full.DisplayName())
	}
}
