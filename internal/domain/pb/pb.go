// Package pb tracks personal bests over a stream of swims. Both the
// consideration and the qualification engines scan swims through a Tracker.
package pb

import (
	"math"
	"sort"

	"github.com/okian/swimtimes/internal/domain/event"
	"github.com/okian/swimtimes/internal/domain/model"
)

// Best is the fastest swim seen so far and the time it was compared on.
type Best struct {
	Swim model.Swim
	Time float64
}

// Tracker keeps the running minimum. Only a strictly faster time replaces
// the current best, so ties keep the swim scanned first.
type Tracker struct {
	best Best
	set  bool
}

// Offer considers swim s compared on time t. It reports whether s became the
// new best. NaN is never accepted.
func (tr *Tracker) Offer(s model.Swim, t float64) bool {
	if math.IsNaN(t) || (tr.set && t >= tr.best.Time) {
		return false
	}
	tr.best = Best{Swim: s, Time: t}
	tr.set = true
	return true
}

// Improves reports whether t would beat the current best. It is false when
// nothing has been offered yet.
func (tr *Tracker) Improves(t float64) bool {
	return tr.set && t < tr.best.Time
}

// Best returns the current best; ok is false when nothing was offered.
func (tr *Tracker) Best() (Best, bool) {
	return tr.best, tr.set
}

// GroupByEvent splits swims by short-course event code and sorts each group
// by date. The sort is stable so same-day swims keep their input order.
func GroupByEvent(swims []model.Swim) [][]model.Swim {
	groups := make([][]model.Swim, event.NumShortCourseEvents())
	for _, s := range swims {
		c := s.Event.ShortCourseCode()
		groups[c] = append(groups[c], s)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].Date.Before(g[j].Date) })
	}
	return groups
}
