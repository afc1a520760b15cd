// Package matchmaker runs one batch matchmaking pass: load the roster,
// predict, search, export, record, then analyze the match log and print a
// report.
package matchmaker

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/matchbalance/internal/adapters/roster"
	service "github.com/okian/matchbalance/internal/app"
	"github.com/okian/matchbalance/internal/domain/predict"
	"github.com/okian/matchbalance/pkg/logger"
)

// DefaultTopSplits is how many ranked splits the report lists.
const DefaultTopSplits = 5

// Run executes one batch run and writes the report to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	start := time.Now()
	log := logger.Get().Named("matchmaker")

	log.Info(ctx, "starting matchmaking run",
		logger.String("roster", cfg.RosterPath),
		logger.String("logPath", cfg.LogPath),
		logger.String("resultPath", cfg.ResultPath),
		logger.Int("logCapacity", cfg.LogCapacity),
		logger.Bool("monitorOnly", cfg.MonitorOnly),
	)

	svc := service.New(
		service.WithLogger(log),
		service.WithLogPath(cfg.LogPath),
		service.WithResultPath(cfg.ResultPath),
		service.WithLogCapacity(cfg.LogCapacity),
		service.WithImbalanceThreshold(cfg.ImbalanceThreshold),
		service.WithPredictor(predict.FromWeights(cfg.FeatureWeights, cfg.ModelBias)),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	var persistErr error
	if !cfg.MonitorOnly {
		records, err := roster.Load(ctx, cfg.RosterPath)
		if err != nil {
			return err
		}

		res, err := svc.Matchmake(ctx, records)
		if err != nil {
			return fmt.Errorf("matchmaking failed: %w", err)
		}
		if err := WriteMatch(out, res, cfg.TopSplits); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if !res.Persisted {
			persistErr = fmt.Errorf("%w: %s", ErrNotPersisted, res.PersistError)
		}
	}

	report, err := svc.Monitor(ctx)
	if err != nil {
		return fmt.Errorf("monitor failed: %w", err)
	}
	if err := WriteReport(out, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info(ctx, "matchmaking run finished",
		logger.Duration("duration", time.Since(start)),
		logger.Int("entries", report.TotalEntries),
		logger.Int("anomalies", report.Anomalies),
	)
	return persistErr
}
