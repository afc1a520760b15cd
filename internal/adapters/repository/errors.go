package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	// ErrCorruptRecord marks a log line that failed to parse. It is recovered
	// locally by skipping the line and is only ever logged.
	ErrCorruptRecord = errors.New("corrupt log record")
	ErrStorageWrite  = errors.New("storage write failed")
)
