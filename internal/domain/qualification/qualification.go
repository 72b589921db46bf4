// Package qualification decides which swimmers have a time at or under the
// age/gender qualifying standard inside the qualifying window.
package qualification

import (
	"strings"
	"time"

	"github.com/okian/swimtimes/internal/domain/event"
	"github.com/okian/swimtimes/internal/domain/model"
	"github.com/okian/swimtimes/internal/domain/pb"
	"github.com/okian/swimtimes/internal/domain/racetime"
)

// Policy controls which swims count towards qualification.
type Policy struct {
	// WindowStart is the earliest swim date considered (inclusive).
	WindowStart time.Time
	excluded    map[string]struct{}
}

// NewPolicy builds a policy. Swims at excludedMeets (e.g. club-only internal
// meets) can still be reported but never officially qualify.
func NewPolicy(windowStart time.Time, excludedMeets []string) Policy {
	p := Policy{WindowStart: windowStart, excluded: make(map[string]struct{}, len(excludedMeets))}
	for _, m := range excludedMeets {
		p.excluded[meetKey(m)] = struct{}{}
	}
	return p
}

// Eligible reports whether swims at meet can qualify.
func (p Policy) Eligible(meet string) bool {
	_, excluded := p.excluded[meetKey(meet)]
	return !excluded
}

// meetKey collapses case and runs of whitespace; meet names in exports often
// carry doubled spaces.
func meetKey(m string) string {
	return strings.ToLower(strings.Join(strings.Fields(m), " "))
}

// Lookup is the qualifying standards contract, satisfied by standards.Tables.
type Lookup interface {
	Lookup(code int, gender model.Gender, age int) (float64, bool)
}

// Engine compares best times against qualifying standards.
type Engine struct {
	standards Lookup
}

// NewEngine creates an engine over the given standards.
func NewEngine(standards Lookup) *Engine {
	return &Engine{standards: standards}
}

// Compute returns the qualifying record for one event, or false when the
// swimmer has no time in the window, there is no standard for the event and
// age, or the best applicable time is slower than the standard.
func (e *Engine) Compute(ev event.Event, swims []model.Swim, policy Policy, gender model.Gender, age int) (model.QualifyingRecord, bool) {
	var eligible, overall pb.Tracker
	for _, s := range swims {
		if s.Date.Before(policy.WindowStart) {
			continue
		}
		t := racetime.Truncate(s.ShortCourseTime)
		if policy.Eligible(s.Meet) {
			eligible.Offer(s, t)
		}
		overall.Offer(s, t)
	}

	best, ok := eligible.Best()
	qualifies := true
	if !ok {
		best, ok = overall.Best()
		qualifies = false
	}
	if !ok {
		return model.QualifyingRecord{}, false
	}

	std, ok := e.standards.Lookup(ev.ShortCourseCode(), gender, age)
	if !ok || best.Time > std {
		return model.QualifyingRecord{}, false
	}
	return model.QualifyingRecord{
		Event:     ev,
		Time:      best.Time,
		Standard:  std,
		Swim:      best.Swim,
		Qualifies: qualifies,
	}, true
}

// ComputeAll returns the records for every short-course event in code order.
func (e *Engine) ComputeAll(sw model.Swimmer, swims []model.Swim, policy Policy, age int) []model.QualifyingRecord {
	groups := pb.GroupByEvent(swims)
	var out []model.QualifyingRecord
	for _, ev := range event.ShortCourseEvents() {
		if rec, ok := e.Compute(ev, groups[ev.Code], policy, sw.Gender, age); ok {
			out = append(out, rec)
		}
	}
	return out
}
