// Package standards holds the age-banded time tables: qualifying standards
// and the no-time (NT) fallback consideration times.
package standards

import (
	"fmt"
	"strings"

	"github.com/okian/swimtimes/internal/domain/event"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/racetime"
)

// Table maps (short-course event code, age) to a time. Ages outside
// [MinAge, MaxAge] are clamped to the nearest edge.
type Table struct {
	Name   string
	MinAge int
	MaxAge int

	// rows[code][age-MinAge]; a nil row means the event is not in the table.
	rows [][]*float64
}

// ParseTable parses tab-separated rows of the form
// "<event name>\t<time at MinAge>\t...\t<time at MaxAge>". Event names are
// short-course events. Empty cells mean no time for that age.
func ParseTable(name string, minAge, maxAge int, text string) (*Table, error) {
	if maxAge < minAge {
		return nil, fmt.Errorf("%w: %s: age range %d-%d", ErrMalformedTable, name, minAge, maxAge)
	}
	t := &Table{
		Name:   name,
		MinAge: minAge,
		MaxAge: maxAge,
		rows:   make([][]*float64, event.NumShortCourseEvents()),
	}
	wantCols := maxAge - minAge + 2

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != wantCols {
			return nil, fmt.Errorf("%w: %s line %d: %d columns, want %d",
				ErrMalformedTable, name, i+1, len(cols), wantCols)
		}
		ev, err := event.Parse(cols[0], event.ShortCourse)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrMalformedTable, name, i+1, err)
		}
		if t.rows[ev.Code] != nil {
			return nil, fmt.Errorf("%w: %s line %d: duplicate row for %s", ErrMalformedTable, name, i+1, ev.Name())
		}

		row := make([]*float64, wantCols-1)
		for j, cell := range cols[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := racetime.Parse(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d column %d: %w", ErrMalformedTable, name, i+1, j+2, err)
			}
			row[j] = &v
		}
		t.rows[ev.Code] = row
	}
	return t, nil
}

// Lookup returns the time for a short-course event code at age. The bool is
// false when the event is not in the table or the cell is empty.
func (t *Table) Lookup(code, age int) (float64, bool) {
	if t == nil || code < 0 || code >= len(t.rows) {
		return 0, false
	}
	row := t.rows[code]
	if row == nil {
		return 0, false
	}
	v := row[t.clamp(age)-t.MinAge]
	if v == nil {
		return 0, false
	}
	return *v, true
}

func (t *Table) clamp(age int) int {
	if age < t.MinAge {
		return t.MinAge
	}
	if age > t.MaxAge {
		return t.MaxAge
	}
	return age
}

// Tables pairs the boys' and girls' tables of one kind.
type Tables struct {
	Boys  *Table
	Girls *Table
}

// Lookup selects the table for gender and looks up (code, age).
func (ts Tables) Lookup(code int, gender model.Gender, age int) (float64, bool) {
	if gender == model.Male {
		return ts.Boys.Lookup(code, age)
	}
	return ts.Girls.Lookup(code, age)
}
