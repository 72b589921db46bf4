package event

import (
	"fmt"
	"strconv"
	"strings"
)

type eventDef struct {
	distance int
	stroke   Stroke
	factor   float64
}

// Short-course events in code order. The long-course catalog is the same list
// minus events with no long-course counterpart (factor 0).
//
// Factors are the club's long-to-short course multipliers.
var shortCourseDefs = []eventDef{
	{50, Freestyle, 0.9640},
	{100, Freestyle, 0.9650},
	{200, Freestyle, 0.9680},
	{400, Freestyle, 0.9700},
	{800, Freestyle, 0.9740},
	{1500, Freestyle, 0.9760},
	{50, Breaststroke, 0.9600},
	{100, Breaststroke, 0.9570},
	{200, Breaststroke, 0.9550},
	{50, Butterfly, 0.9700},
	{100, Butterfly, 0.9700},
	{200, Butterfly, 0.9720},
	{50, Backstroke, 0.9500},
	{100, Backstroke, 0.9550},
	{200, Backstroke, 0.9560},
	{100, Medley, 0},
	{200, Medley, 0.9600},
	{400, Medley, 0.9650},
}

var (
	catalog     []Event
	shortEvents []Event
	byName      map[string]Event
)

func init() {
	byName = make(map[string]Event)
	for i, s := range shortCourseDefs {
		e := Event{Code: i, Distance: s.distance, Stroke: s.stroke, Course: ShortCourse, factor: s.factor}
		catalog = append(catalog, e)
		shortEvents = append(shortEvents, e)
	}
	for _, s := range shortCourseDefs {
		if s.factor == 0 {
			continue
		}
		e := Event{Code: len(catalog), Distance: s.distance, Stroke: s.stroke, Course: LongCourse, factor: s.factor}
		catalog = append(catalog, e)
	}
	for _, e := range catalog {
		byName[nameKey(e.Name(), e.Course)] = e
	}
}

func nameKey(name string, c Course) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " ")) + "|" + c.String()
}

// NumShortCourseEvents is the number of distinct events swims are grouped into.
func NumShortCourseEvents() int {
	return len(shortEvents)
}

// ShortCourseEvents returns the short-course events in code order.
func ShortCourseEvents() []Event {
	out := make([]Event, len(shortEvents))
	copy(out, shortEvents)
	return out
}

// All returns every event in the catalog in code order.
func All() []Event {
	out := make([]Event, len(catalog))
	copy(out, catalog)
	return out
}

// ByCode looks an event up by its stable code.
func ByCode(code int) (Event, error) {
	if code < 0 || code >= len(catalog) {
		return Event{}, fmt.Errorf("%w: code %d", ErrUnknownEvent, code)
	}
	return catalog[code], nil
}

// Parse looks an event up by name ("50 Free", "400 IM") and course.
func Parse(name string, c Course) (Event, error) {
	e, ok := byName[nameKey(name, c)]
	if !ok {
		return Event{}, fmt.Errorf("%w: %q course %s", ErrUnknownEvent, name, c)
	}
	return e, nil
}

// Opposite returns the same distance and stroke in the other course.
func Opposite(e Event) (Event, error) {
	if !e.HasConversion() {
		return Event{}, fmt.Errorf("%w: %s", ErrNoConversion, e)
	}
	other := LongCourse
	if e.Course == LongCourse {
		other = ShortCourse
	}
	return Parse(strconv.Itoa(e.Distance)+" "+string(e.Stroke), other)
}
