package report

import "errors"

// ErrWrite wraps any failure writing a report.
var ErrWrite = errors.New("report: write failed")
