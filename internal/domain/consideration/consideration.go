// Package consideration computes scoring consideration times: the PB as of a
// cutoff date, interpolated towards the first improvement after the cutoff,
// or the NT table time when there is no PB.
package consideration

import (
	"fmt"
	"time"

	"github.com/okian/swimtimes/internal/domain/event"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/pb"
	"github.com/okian/swimtimes/internal/domain/racetime"
)

// Source says where a consideration time came from.
type Source string

const (
	SourcePB           Source = "pb"
	SourceInterpolated Source = "interpolated"
	SourceFallback     Source = "fallback"
	SourceNone         Source = "none"
)

// SourceOf classifies a computed consideration time.
func SourceOf(ct model.ConsiderationTime) Source {
	switch {
	case !ct.HasTime:
		return SourceNone
	case ct.FromFallback:
		return SourceFallback
	case ct.Interpolated:
		return SourceInterpolated
	default:
		return SourcePB
	}
}

// Lookup is the fallback table contract, satisfied by standards.Tables.
type Lookup interface {
	Lookup(code int, gender model.Gender, age int) (float64, bool)
}

// Engine computes consideration times against a fallback table.
type Engine struct {
	fallback Lookup
}

// NewEngine creates an engine using fallback for swimmers without a PB.
func NewEngine(fallback Lookup) *Engine {
	return &Engine{fallback: fallback}
}

// Compute returns the consideration time for one event. swims must all be
// for ev (by short-course code) and sorted by date ascending.
func (e *Engine) Compute(ev event.Event, swims []model.Swim, cutoff time.Time, gender model.Gender, age int) model.ConsiderationTime {
	var before pb.Tracker
	var after *model.Swim

	for i := range swims {
		s := swims[i]
		if !s.Date.After(cutoff) {
			before.Offer(s, s.ShortCourseTime)
			continue
		}
		// Only the first post-cutoff improvement counts; later, larger
		// improvements are ignored.
		if _, ok := before.Best(); !ok {
			break
		}
		if before.Improves(s.ShortCourseTime) {
			after = &swims[i]
			break
		}
	}

	best, ok := before.Best()
	if !ok {
		return e.fromFallback(ev, cutoff, gender, age)
	}
	pre := best.Swim
	if after == nil {
		return model.ConsiderationTime{
			Event:   ev,
			Time:    pre.ShortCourseTime,
			HasTime: true,
			Reason:  fmt.Sprintf("From %s on %s", pre.Meet, model.FormatDate(pre.Date)),
		}
	}

	f := float64(model.DaysBetween(pre.Date, cutoff)) / float64(model.DaysBetween(pre.Date, after.Date))
	return model.ConsiderationTime{
		Event:        ev,
		Time:         after.ShortCourseTime*f + pre.ShortCourseTime*(1-f),
		HasTime:      true,
		Interpolated: true,
		Reason: fmt.Sprintf("Interpolated between %s %s (%s) and %s %s (%s)",
			pre.Meet, model.FormatDate(pre.Date), racetime.Format(pre.ShortCourseTime),
			after.Meet, model.FormatDate(after.Date), racetime.Format(after.ShortCourseTime)),
	}
}

func (e *Engine) fromFallback(ev event.Event, cutoff time.Time, gender model.Gender, age int) model.ConsiderationTime {
	if e.fallback != nil {
		if t, ok := e.fallback.Lookup(ev.ShortCourseCode(), gender, age); ok {
			return model.ConsiderationTime{
				Event:        ev,
				Time:         t,
				HasTime:      true,
				FromFallback: true,
				Reason:       fmt.Sprintf("No PB as of %s, so consideration time taken from the NT fallback table", model.FormatDate(cutoff)),
			}
		}
	}
	return model.ConsiderationTime{
		Event:  ev,
		Reason: fmt.Sprintf("No PB as of %s, and no fallback time in the NT table", model.FormatDate(cutoff)),
	}
}

// ComputeAll returns one consideration time per short-course event, in code
// order, for a swimmer of the given age.
func (e *Engine) ComputeAll(sw model.Swimmer, swims []model.Swim, cutoff time.Time, age int) []model.ConsiderationTime {
	groups := pb.GroupByEvent(swims)
	out := make([]model.ConsiderationTime, 0, len(groups))
	for _, ev := range event.ShortCourseEvents() {
		out = append(out, e.Compute(ev, groups[ev.Code], cutoff, sw.Gender, age))
	}
	return out
}
