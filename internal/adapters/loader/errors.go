package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVersion is returned for a swim row whose version tag has
	// no decoder. The whole batch is rejected.
	ErrUnsupportedVersion = errors.New("loader: unsupported swim record version")

	// ErrMalformedRecord is returned for a row with the wrong field count or
	// an unparseable number, date or time.
	ErrMalformedRecord = errors.New("loader: malformed record")
)

// LineError attaches the 1-based input line to a decode failure.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
