package model

import "github.com/okian/swimtimes/internal/domain/event"

// ConsiderationTime is the reference time used for scoring a swimmer in one
// event. HasTime is false when neither a PB nor a fallback exists.
type ConsiderationTime struct {
	Event   event.Event
	Time    float64
	HasTime bool
	Reason  string
	// FromFallback marks times taken from the NT table rather than a swim.
	FromFallback bool
	// Interpolated marks times blended between a PB before the cutoff and
	// the first improvement after it.
	Interpolated bool
}

// QualifyingRecord is a swimmer's best applicable time in an event that is
// at or under the qualifying standard.
type QualifyingRecord struct {
	Event event.Event
	// Time is the truncated short-course time compared against Standard.
	Time     float64
	Standard float64
	Swim     Swim
	// Qualifies is false when the time was set at an excluded meet.
	Qualifies bool
}

// ExclusionReason says why a swimmer was left out of a report.
type ExclusionReason string

const (
	ReasonNotEntered ExclusionReason = "not_entered"
	ReasonTooOld     ExclusionReason = "too_old"
	ReasonExcluded   ExclusionReason = "excluded"
)

// Exclusion records a swimmer dropped from a report.
type Exclusion struct {
	Swimmer Swimmer
	// Name is the name the swimmer was looked up under.
	Name   string
	Age    int
	Reason ExclusionReason
}

// SwimmerConsideration is one swimmer's consideration times, one per
// short-course event in code order.
type SwimmerConsideration struct {
	Swimmer Swimmer
	// EntryName is the entry-list name the swimmer matched.
	EntryName string
	Age       int
	Times     []ConsiderationTime
}

// SwimmerQualifiers is one swimmer's qualifying records in code order.
type SwimmerQualifiers struct {
	Swimmer Swimmer
	Age     int
	Records []QualifyingRecord
}

// SwimmerChamps is one swimmer's club-championship swims in code order.
type SwimmerChamps struct {
	Swimmer   Swimmer
	EntryName string
	Age       int
	Swims     []Swim
}
