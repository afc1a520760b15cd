package matchmaker

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/matchbalance/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging routes structured logs to stderr and, if logFile is set, to
// that file as well. The report itself goes to stdout. The returned func
// closes the log file.
func SetupLogging(logFile, level, format string) (func() error, error) {
	closeFn := func() error { return nil }
	var w io.Writer = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, file)
		closeFn = file.Close
	}

	if err := logger.InitWithWriter(w); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := logger.SetFormat(format); err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(level); err != nil {
		return nil, err
	}
	return closeFn, nil
}

// ShowHelp prints usage information for the matchmaker tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Matchbalance Batch Matchmaker
=============================

Splits an 8-player roster into the most balanced 4v4, records the decision
in the rolling match log and prints a monitoring report of that log.

Usage:
  go run ./cmd/matchmaker [options]

Options:
  -config string
        YAML configuration file (same keys as the service, env MATCHBAL_CONFIG)
  -roster string
        Roster document (default "roster.yaml")
  -log-path string
        Rolling match log, JSON Lines (default "logs.json")
  -result string
        Winning split export (default "best_split.json")
  -top int
        Ranked splits to print (default 5)
  -monitor-only
        Only analyze the match log; do not matchmake
  -log string
        Also write structured logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Exit status is 1 when the run fails or its decision could not be persisted.

Examples:
  # Matchmake the default roster
  go run ./cmd/matchmaker

  # Use a linear model from a config file and keep a longer history
  MATCHBAL_LOG_CAPACITY=50 go run ./cmd/matchmaker -config matchbalance.yaml -roster friday.yaml

  # Inspect the history only
  go run ./cmd/matchmaker -monitor-only
`)
}
