package event

import "errors"

// Sentinel error kinds for the event catalog.
var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrNoConversion = errors.New("event has no equivalent in the other course")
	ErrInvalidTime  = errors.New("race time must be positive")
)
