// Package racetime parses, formats and truncates swim race times held as
// float64 seconds.
package racetime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidTime is returned when a race time string cannot be parsed.
var ErrInvalidTime = errors.New("invalid race time")

// truncateEpsilon absorbs binary representation error before flooring,
// e.g. 28.7*10 == 286.99999999999997.
const truncateEpsilon = 1e-9

// Parse converts "ss.hh", "m:ss.hh" or "h:mm:ss.hh" into seconds.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTime)
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	last := parts[len(parts)-1]
	if !isDecimal(last) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	secs, err := strconv.ParseFloat(last, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	if len(parts) > 1 && secs >= 60 {
		return 0, fmt.Errorf("%w: seconds out of range in %q", ErrInvalidTime, s)
	}

	total := secs
	scale := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		total += float64(n) * scale
		scale *= 60
	}
	// Snap to the nearest millisecond so "1:09.9" and Truncate(69.93) are
	// the same float64.
	return math.Round(total*1000) / 1000, nil
}

// isDecimal accepts digits with at most one decimal point. ParseFloat alone
// would also take "NaN", "Inf" and exponents.
func isDecimal(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// Truncate floors t to one-tenth of a second.
func Truncate(t float64) float64 {
	return math.Floor(t*10+truncateEpsilon) / 10
}

// Format renders seconds as "m:ss.hh", or "ss.hh" under a minute.
func Format(t float64) string {
	hundredths := int64(math.Round(t * 100))
	if hundredths < 0 {
		hundredths = 0
	}
	mins := hundredths / 6000
	rest := hundredths % 6000
	if mins == 0 {
		return fmt.Sprintf("%d.%02d", rest/100, rest%100)
	}
	return fmt.Sprintf("%d:%02d.%02d", mins, rest/100, rest%100)
}
