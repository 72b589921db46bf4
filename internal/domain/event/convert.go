package event

import (
	"fmt"
	"math"

	"github.com/okian/swimtimes/internal/domain/racetime"
)

// Convert returns the equivalent of t (seconds) in the opposite course.
// Long-course times are multiplied by the event factor, short-course times
// divided by it. The result is not truncated.
func Convert(e Event, t float64) (float64, error) {
	if !validTime(t) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTime, t)
	}
	if !e.HasConversion() {
		return 0, fmt.Errorf("%w: %s", ErrNoConversion, e)
	}
	if e.Course == LongCourse {
		return t * e.factor, nil
	}
	return t / e.factor, nil
}

// Normalize returns t as a short-course time. Short-course times pass
// through unchanged; converted times are floored to a tenth of a second.
func Normalize(e Event, t float64) (float64, error) {
	if !validTime(t) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTime, t)
	}
	if e.Course == ShortCourse {
		return t, nil
	}
	sc, err := Convert(e, t)
	if err != nil {
		return 0, err
	}
	return racetime.Truncate(sc), nil
}

// validTime rejects non-positive times as well as NaN and infinities.
func validTime(t float64) bool {
	return t > 0 && !math.IsInf(t, 1)
}
