package standards

import "errors"

// ErrMalformedTable marks embedded table data that cannot be parsed. It is a
// configuration error: callers must abort before computing anything.
var ErrMalformedTable = errors.New("malformed time table")
