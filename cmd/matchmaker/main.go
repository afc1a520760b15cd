package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/matchbalance/internal/config"
	"github.com/okian/matchbalance/internal/matchmaker"
)

// Default configuration constants.
const (
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		configFile  = flag.String("config", "", "YAML configuration file (overrides MATCHBAL_CONFIG)")
		rosterPath  = flag.String("roster", "", "Roster document (default from config: roster.yaml)")
		logPath     = flag.String("log-path", "", "Rolling match log (default from config: logs.json)")
		resultPath  = flag.String("result", "", "Winning split export (default from config: best_split.json)")
		topSplits   = flag.Int("top", matchmaker.DefaultTopSplits, "Ranked splits to print")
		monitorOnly = flag.Bool("monitor-only", false, "Only analyze the match log")
		logFile     = flag.String("log", "", "Also write structured logs to this file")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		matchmaker.ShowHelp(os.Stdout)
		return
	}

	if *configFile != "" {
		_ = os.Setenv(config.EnvConfig, *configFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	closeLog, err := matchmaker.SetupLogging(*logFile, level, cfg.LogFormat)
	if err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	runCfg := matchmaker.FromConfig(cfg)
	if *rosterPath != "" {
		runCfg.RosterPath = *rosterPath
	}
	if *logPath != "" {
		runCfg.LogPath = *logPath
	}
	if *resultPath != "" {
		runCfg.ResultPath = *resultPath
	}
	runCfg.TopSplits = *topSplits
	runCfg.MonitorOnly = *monitorOnly

	runErr := matchmaker.Run(ctx, runCfg, os.Stdout)
	_ = closeLog()
	if runErr != nil {
		os.Stderr.WriteString("matchmaking run failed: " + runErr.Error() + "\n")
		os.Exit(1)
	}
}
