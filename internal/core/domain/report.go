package domain

import (
	"fmt"
	"regexp"
	"time"
)

type FoodAmount string

const (
	AmountNada     FoodAmount = "Nada"
	AmountPoco     FoodAmount = "Poco"
	AmountMitad    FoodAmount = "Mitad"
	AmountCasiTodo FoodAmount = "Casi Todo"
	AmountTodo     FoodAmount = "Todo"
)

type SleepQuality string

const (
	SleepIntranquilo SleepQuality = "Intranquilo"
	SleepNormal      SleepQuality = "Normal"
	SleepTranquilo   SleepQuality = "Tranquilo"
)

type DiaperType string

const (
	DiaperPis     DiaperType = "Pis"
	DiaperCaca    DiaperType = "Caca"
	DiaperPisCaca DiaperType = "Pis/Caca"
	DiaperSeco    DiaperType = "Seco"
)

func (a FoodAmount) Valid() bool {
	switch a {
	case AmountNada, AmountPoco, AmountMitad, AmountCasiTodo, AmountTodo:
		return true
	}
	return false
}

func (q SleepQuality) Valid() bool {
	switch q {
	case SleepIntranquilo, SleepNormal, SleepTranquilo:
		return true
	}
	return false
}

func (t DiaperType) Valid() bool {
	switch t {
	case DiaperPis, DiaperCaca, DiaperPisCaca, DiaperSeco:
		return true
	}
	return false
}

type Course struct {
	Dish   string     `json:"dish"`
	Amount FoodAmount `json:"amount"`
}

type Food struct {
	First   Course `json:"first"`
	Second  Course `json:"second"`
	Dessert Course `json:"dessert"`
}

type Sleep struct {
	Start   string       `json:"start"`
	End     string       `json:"end"`
	Quality SleepQuality `json:"quality"`
}

type DiaperChange struct {
	Time string     `json:"time"`
	Type DiaperType `json:"type"`
}

type Hygiene struct {
	Diapers []DiaperChange `json:"diapers"`
}

// DailyReport is one agenda document, keyed by (studentID, date). The whole
// document is replaced on every save; there is no field-level patching.
type DailyReport struct {
	Food    Food    `json:"food"`
	Sleep   Sleep   `json:"sleep"`
	Hygiene Hygiene `json:"hygiene"`
	Notes   string  `json:"notes"`

	// Version counts saves for the same key. Callers that send their
	// last-seen version get stale writes rejected; callers that send
	// nothing keep last-write-wins.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmptyReport is the form's reset state: blank dishes, full amounts,
// calm sleep, no diaper changes.
func EmptyReport() DailyReport {
	return DailyReport{
		Food: Food{
			First:   Course{Amount: AmountTodo},
			Second:  Course{Amount: AmountTodo},
			Dessert: Course{Amount: AmountTodo},
		},
		Sleep: Sleep{Quality: SleepTranquilo},
		Hygiene: Hygiene{
			Diapers: []DiaperChange{},
		},
	}
}

// Validate checks every enumerated field against its allowed set.
func (r *DailyReport) Validate() error {
	for _, c := range []struct {
		name   string
		course Course
	}{
		{"first", r.Food.First},
		{"second", r.Food.Second},
		{"dessert", r.Food.Dessert},
	} {
		if !c.course.Amount.Valid() {
			return fmt.Errorf("%w: food.%s.amount %q", ErrInvalidReport, c.name, c.course.Amount)
		}
	}
	if !r.Sleep.Quality.Valid() {
		return fmt.Errorf("%w: sleep.quality %q", ErrInvalidReport, r.Sleep.Quality)
	}
	for i, d := range r.Hygiene.Diapers {
		if !d.Type.Valid() {
			return fmt.Errorf("%w: hygiene.diapers[%d].type %q", ErrInvalidReport, i, d.Type)
		}
	}
	return nil
}

// AddDiaper appends a timestamped change to the end of the sequence.
func (r *DailyReport) AddDiaper(at string, typ DiaperType) error {
	if at == "" {
		return fmt.Errorf("%w: diaper time is required", ErrInvalidReport)
	}
	if !typ.Valid() {
		return fmt.Errorf("%w: diaper type %q", ErrInvalidReport, typ)
	}
	r.Hygiene.Diapers = append(r.Hygiene.Diapers, DiaperChange{Time: at, Type: typ})
	return nil
}

// RemoveDiaper removes the entry at position i in the current sequence.
// The index refers to the sequence as it stands now; after a removal the
// remaining entries shift down and indexes must be recomputed by the caller.
func (r *DailyReport) RemoveDiaper(i int) error {
	if i < 0 || i >= len(r.Hygiene.Diapers) {
		return fmt.Errorf("%w: diaper index %d out of range", ErrInvalidReport, i)
	}
	r.Hygiene.Diapers = append(r.Hygiene.Diapers[:i], r.Hygiene.Diapers[i+1:]...)
	return nil
}

// reportDatePattern matches the client-local calendar date used as the
// document key. No timezone normalization happens anywhere.
var reportDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func ValidReportDate(date string) bool {
	if !reportDatePattern.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
