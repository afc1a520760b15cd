// Package service composes prediction, partitioning, result export, the
// match log and the monitor into the operations used by the HTTP API and
// the batch runner.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/matchbalance/internal/adapters/repository"
	"github.com/okian/matchbalance/internal/domain/model"
	"github.com/okian/matchbalance/internal/domain/monitor"
	"github.com/okian/matchbalance/internal/domain/partition"
	"github.com/okian/matchbalance/internal/domain/predict"
	"github.com/okian/matchbalance/pkg/logger"
	"github.com/okian/matchbalance/pkg/metrics"
)

// ErrNotStarted is returned by operations that need the match log before Start.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for matchmaking.
//
// Matchmaking is single-writer: mu serializes Matchmake calls, and readers
// copy the log under the read lock before analyzing it.
type Service struct {
	mu sync.RWMutex

	// Core components
	matchLog  *repository.FileLog
	predictor predict.Predictor

	// Configuration
	logPath            string
	resultPath         string
	logCapacity        int
	imbalanceThreshold float64

	// State
	started         bool
	matchesRecorded int
	persistFailures int
	lastMatchID     string

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLogPath sets the match log file.
func WithLogPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.logPath = path
		}
	}
}

// WithResultPath sets where the winning split is exported.
func WithResultPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.resultPath = path
		}
	}
}

// WithLogCapacity bounds the number of match log entries kept.
func WithLogCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.logCapacity = n
		}
	}
}

// WithPredictor sets the win-ratio predictor used by Matchmake.
func WithPredictor(p predict.Predictor) Option {
	return func(s *Service) {
		if p != nil {
			s.predictor = p
		}
	}
}

// WithImbalanceThreshold sets the monitor's balance threshold.
func WithImbalanceThreshold(t float64) Option {
	return func(s *Service) {
		if t > 0 && t < 0.5 {
			s.imbalanceThreshold = t
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		logPath:            "logs.json",
		resultPath:         "best_split.json",
		logCapacity:        repository.DefaultCapacity,
		imbalanceThreshold: monitor.DefaultImbalanceThreshold,
		predictor:          predict.RatioPredictor{},
		logger:             nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the match log.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting matchmaking service...")

	l, err := repository.Open(ctx, s.logPath,
		repository.WithCapacity(s.logCapacity),
		repository.WithLogger(s.logger.Named("matchlog")),
	)
	if err != nil {
		metrics.RecordErrorByComponent("service", "start_failed")
		return fmt.Errorf("start service: %w", err)
	}
	s.matchLog = l

	s.started = true
	s.logger.Info(ctx, "matchmaking service started",
		logger.String("logPath", s.logPath),
		logger.String("resultPath", s.resultPath),
		logger.Int("logCapacity", s.logCapacity),
		logger.Int("logEntries", l.Len(ctx)),
	)

	return nil
}

// Stop releases the match log. Every write is already flushed.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.matchLog = nil
	s.started = false
	s.logger.Info(context.Background(), "matchmaking service stopped")
}

// Split ranks all canonical splits of roster without recording anything.
func (s *Service) Split(ctx context.Context, roster model.Roster) (model.Split, []model.Split, error) {
	start := time.Now()
	best, ranked, err := partition.FindBestSplit(roster)
	if err != nil {
		metrics.RecordPartitionError(partition.Code(err))
		return model.Split{}, nil, err
	}
	metrics.RecordPartition(float64(time.Since(start).Microseconds())/1000, len(ranked), best.Diff)
	return best, ranked, nil
}

// Matchmake predicts a win-ratio per record, finds the best split, exports
// it and appends it to the match log. Prediction and validation errors abort
// the run; storage errors are reported in the result.
func (s *Service) Matchmake(ctx context.Context, records []model.PlayerRecord) (model.MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.MatchResult{}, ErrNotStarted
	}

	roster, err := predict.BuildRoster(ctx, s.predictor, records)
	if err != nil {
		metrics.RecordPartitionError("prediction_failed")
		return model.MatchResult{}, err
	}

	best, ranked, err := s.Split(ctx, roster)
	if err != nil {
		return model.MatchResult{}, err
	}

	res := model.MatchResult{
		Match:  model.NewMatchLogEntry(best, time.Now()),
		Best:   best,
		Ranked: ranked,
	}

	var persistErrs []error
	if err := repository.WriteSplit(ctx, s.resultPath, best); err != nil {
		metrics.RecordResultExportError()
		persistErrs = append(persistErrs, err)
	}
	if err := s.matchLog.RecordMatch(ctx, res.Match); err != nil {
		persistErrs = append(persistErrs, err)
	} else {
		s.matchesRecorded++
	}
	metrics.RecordMatchmakingRun()

	if err := errors.Join(persistErrs...); err != nil {
		s.persistFailures++
		res.PersistError = err.Error()
		s.logger.Error(ctx, "match decision not fully persisted",
			logger.String("matchID", res.Match.MatchID),
			logger.Error(err),
		)
	} else {
		res.Persisted = true
	}
	s.lastMatchID = res.Match.MatchID

	s.logger.Info(ctx, "match decided",
		logger.String("matchID", res.Match.MatchID),
		logger.Strings("teamA", best.TeamA),
		logger.Strings("teamB", best.TeamB),
		logger.Float64("diff", best.Diff),
		logger.Bool("persisted", res.Persisted),
	)
	return res, nil
}

// Entries returns a snapshot of the match log, oldest first.
func (s *Service) Entries(ctx context.Context) ([]model.MatchLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return s.matchLog.Entries(ctx), nil
}

// Monitor analyzes a snapshot of the match log.
func (s *Service) Monitor(ctx context.Context) (model.MonitorReport, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return model.MonitorReport{}, err
	}

	report := monitor.Analyze(entries, monitor.WithImbalanceThreshold(s.imbalanceThreshold))

	var mean, stddev, pct float64
	if report.HasData() {
		mean, stddev, pct = report.Stats.Mean, report.Stats.StdDev, report.Stats.PercentUnbalanced
	}
	metrics.RecordMonitorRun(report.Anomalies, report.HasData(), mean, stddev, pct)
	metrics.UpdateMatchLogEntries(report.TotalEntries)
	for _, a := range report.Alerts {
		metrics.RecordMonitorAlert(string(a.Kind))
	}

	if !report.Healthy() {
		s.logger.Warn(ctx, "match log anomalies detected",
			logger.Int("entries", report.TotalEntries),
			logger.Int("anomalies", report.Anomalies),
		)
	}
	return report, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"logPath":            s.logPath,
		"resultPath":         s.resultPath,
		"logCapacity":        s.logCapacity,
		"imbalanceThreshold": s.imbalanceThreshold,
		"matchesRecorded":    s.matchesRecorded,
		"persistFailures":    s.persistFailures,
	}
	if s.lastMatchID != "" {
		stats["lastMatchID"] = s.lastMatchID
	}

	if s.started {
		ctx := context.Background()
		entries := s.matchLog.Len(ctx)
		stats["logEntries"] = entries
		stats["skippedLines"] = s.matchLog.SkippedLines()

		metrics.UpdateMatchLogEntries(entries)
	}

	return stats
}
