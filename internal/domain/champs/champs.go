// Package champs extracts the times a swimmer actually swam at the club
// championships, one per event.
package champs

import (
	"strings"
	"time"

	"github.com/okian/swimtimes/internal/domain/event"
	"github.com/okian/swimtimes/internal/domain/model"
)

// Extract returns, for each short-course event in code order, the last swim
// (in input order) at meet dated within [start, end]. Meet names are
// compared exactly, apart from surrounding whitespace.
func Extract(swims []model.Swim, meet string, start, end time.Time) []model.Swim {
	meet = strings.TrimSpace(meet)
	byCode := make([]*model.Swim, event.NumShortCourseEvents())
	for i := range swims {
		s := &swims[i]
		if strings.TrimSpace(s.Meet) != meet || s.Date.Before(start) || s.Date.After(end) {
			continue
		}
		byCode[s.Event.ShortCourseCode()] = s
	}

	var out []model.Swim
	for _, s := range byCode {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}
