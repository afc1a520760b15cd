package matchmaker

import "github.com/okian/matchbalance/internal/config"

// Config holds configuration for one batch run.
type Config struct {
	RosterPath         string             // Roster document (YAML or JSON)
	LogPath            string             // Rolling match log
	ResultPath         string             // Winning split export
	LogCapacity        int                // Entries kept in the match log
	ImbalanceThreshold float64            // Monitor balance threshold
	FeatureWeights     map[string]float64 // Linear predictor weights; empty uses win_ratio
	ModelBias          float64            // Linear predictor intercept
	TopSplits          int                // Ranked splits printed after the best one
	MonitorOnly        bool               // Analyze the log without matchmaking
}

// FromConfig derives a batch configuration from the service configuration.
func FromConfig(c *config.Config) *Config {
	return &Config{
		RosterPath:         c.RosterPath,
		LogPath:            c.LogPath,
		ResultPath:         c.ResultPath,
		LogCapacity:        c.LogCapacity,
		ImbalanceThreshold: c.ImbalanceThreshold,
		FeatureWeights:     c.FeatureWeights,
		ModelBias:          c.ModelBias,
		TopSplits:          DefaultTopSplits,
	}
}
