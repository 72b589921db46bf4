// Package event is the catalog of swim events. Every event has a stable
// integer code: short-course events first, then long-course events.
package event

import (
	"fmt"
	"strconv"
	"strings"
)

// Course is the pool length a race was swum in.
type Course int

const (
	ShortCourse Course = iota // 25m pool
	LongCourse                // 50m pool
)

// String returns "S" or "L", the course tags used in the club's files.
func (c Course) String() string {
	if c == LongCourse {
		return "L"
	}
	return "S"
}

// ParseCourse accepts "S"/"L" (case-insensitive).
func ParseCourse(s string) (Course, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "S":
		return ShortCourse, nil
	case "L":
		return LongCourse, nil
	}
	return ShortCourse, fmt.Errorf("%w: course %q", ErrUnknownEvent, s)
}

// Stroke of an event.
type Stroke string

const (
	Freestyle    Stroke = "Free"
	Breaststroke Stroke = "Breast"
	Butterfly    Stroke = "Fly"
	Backstroke   Stroke = "Back"
	Medley       Stroke = "IM"
)

// Event is an immutable catalog entry.
type Event struct {
	Code     int
	Distance int
	Stroke   Stroke
	Course   Course

	// factor multiplies a long-course time into its short-course equivalent.
	// Zero means the event has no counterpart in the other course.
	factor float64
}

// Name returns the event name without course, e.g. "100 Breast".
func (e Event) Name() string {
	return strconv.Itoa(e.Distance) + " " + string(e.Stroke)
}

// String returns the name with a course suffix, e.g. "100 Breast (L)".
func (e Event) String() string {
	return e.Name() + " (" + e.Course.String() + ")"
}

// IsLongCourse reports whether the event is swum in a 50m pool.
func (e Event) IsLongCourse() bool {
	return e.Course == LongCourse
}

// ShortCourseCode returns the code of the short-course version of the event.
// Swims are grouped by this code regardless of the pool they were swum in.
func (e Event) ShortCourseCode() int {
	if e.Course == ShortCourse {
		return e.Code
	}
	sc, _ := Opposite(e)
	return sc.Code
}

// HasConversion reports whether a time in this event can be converted to the
// opposite course.
func (e Event) HasConversion() bool {
	return e.factor > 0
}
