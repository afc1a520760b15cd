package monitor

// Option applies a configuration option to an analysis run.
type Option func(*analyzer)

// WithImbalanceThreshold sets the |winrate_a - 0.5| above which an entry is unbalanced.
func WithImbalanceThreshold(threshold float64) Option {
	return func(a *analyzer) {
		if threshold > 0 && threshold < 0.5 {
			a.threshold = threshold
		}
	}
}

// WithExpectedPlayers sets how many distinct players each entry must reference.
func WithExpectedPlayers(n int) Option {
	return func(a *analyzer) {
		if n > 0 {
			a.expectedPlayers = n
		}
	}
}
