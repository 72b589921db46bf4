package service

import "errors"

// ErrNotConfigured is returned when a report is run without the dates it
// needs.
var ErrNotConfigured = errors.New("service: report not configured")
