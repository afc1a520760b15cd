package repository

import (
	"os"

	"github.com/okian/matchbalance/pkg/logger"
)

// Option applies a configuration option to the FileLog.
type Option func(*FileLog)

// WithCapacity sets how many of the most recent entries are kept.
func WithCapacity(capacity int) Option {
	return func(l *FileLog) {
		if capacity > 0 {
			l.capacity = capacity
		}
	}
}

// WithFileMode sets the permission bits of the log file.
func WithFileMode(mode os.FileMode) Option {
	return func(l *FileLog) {
		if mode != 0 {
			l.mode = mode
		}
	}
}

// WithLogger sets a custom logger for the match log.
func WithLogger(log logger.Logger) Option {
	return func(l *FileLog) {
		if log != nil {
			l.logger = log
		}
	}
}
