package predict

// Option applies a configuration option to the LinearPredictor.
type Option func(*LinearPredictor)

// WithFeatureWeights sets per-feature weights from a configuration map.
// Zero weights are dropped.
func WithFeatureWeights(weights map[string]float64) Option {
	return func(p *LinearPredictor) {
		p.weights = make(map[string]float64, len(weights))
		for name, w := range weights {
			if w != 0 {
				p.weights[name] = w
			}
		}
	}
}

// WithBias sets the intercept added to every prediction.
func WithBias(bias float64) Option {
	return func(p *LinearPredictor) {
		p.bias = bias
	}
}

// WithStrictFeatures makes a missing weighted feature an error instead of
// being imputed with the fill value.
func WithStrictFeatures(strict bool) Option {
	return func(p *LinearPredictor) {
		p.strict = strict
	}
}

// WithFillValue sets the value imputed for missing features.
func WithFillValue(v float64) Option {
	return func(p *LinearPredictor) {
		p.fill = v
	}
}
