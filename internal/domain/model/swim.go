package model

import (
	"fmt"
	"time"

	"github.com/okian/swimtimes/internal/domain/event"
)

// Swim is one race result. ShortCourseTime is derived at construction.
type Swim struct {
	SwimmerID int
	// SwimID is the governing body's id for the swim; 0 when unknown.
	SwimID   int
	Event    event.Event
	Date     time.Time
	Meet     string
	Licensed bool
	// RaceTime is the time as swum, in seconds.
	RaceTime float64
	// ShortCourseTime is RaceTime for short-course swims, otherwise the
	// converted time floored to a tenth.
	ShortCourseTime float64
}

// NewSwim builds a Swim and derives its short-course time.
func NewSwim(swimmerID, swimID int, e event.Event, date time.Time, meet string, licensed bool, raceTime float64) (Swim, error) {
	sc, err := event.Normalize(e, raceTime)
	if err != nil {
		return Swim{}, fmt.Errorf("swim %d for swimmer %d: %w", swimID, swimmerID, err)
	}
	return Swim{
		SwimmerID:       swimmerID,
		SwimID:          swimID,
		Event:           e,
		Date:            date,
		Meet:            meet,
		Licensed:        licensed,
		RaceTime:        raceTime,
		ShortCourseTime: sc,
	}, nil
}
