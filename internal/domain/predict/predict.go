// Package predict defines the contract for estimating a player's win-ratio
// from its features, and turns supplied player records into a roster.
package predict

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/okian/matchbalance/internal/domain/model"
	"gonum.org/v1/gonum/floats"
)

// DefaultRatioFeature is the feature read by RatioPredictor when none is set.
const DefaultRatioFeature = "win_ratio"

// Predictor estimates a win-ratio in [0,1] for one player. Implementations
// are typically backed by an externally trained model.
type Predictor interface {
	Predict(ctx context.Context, f model.Features) (float64, error)
}

// LinearPredictor is a weighted sum of features plus a bias, clamped to [0,1].
type LinearPredictor struct {
	weights map[string]float64
	bias    float64
	strict  bool
	fill    float64

	// names and coef are the weights aligned in name order.
	names []string
	coef  []float64
}

// NewLinearPredictor creates a linear predictor with configuration options.
func NewLinearPredictor(opts ...Option) *LinearPredictor {
	p := &LinearPredictor{
		weights: make(map[string]float64),
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	p.names = make([]string, 0, len(p.weights))
	for name := range p.weights {
		p.names = append(p.names, name)
	}
	slices.Sort(p.names)
	p.coef = make([]float64, len(p.names))
	for i, name := range p.names {
		p.coef[i] = p.weights[name]
	}
	return p
}

// Predict returns bias + sum(weight * feature), clamped to [0,1].
func (p *LinearPredictor) Predict(ctx context.Context, f model.Features) (float64, error) {
	x := make([]float64, len(p.names))
	for i, name := range p.names {
		v, ok := f[name]
		switch {
		case ok:
			x[i] = v
		case p.strict:
			return 0, fmt.Errorf("%w: %s", ErrMissingFeature, name)
		default:
			x[i] = p.fill
		}
	}
	y := p.bias
	if len(x) > 0 {
		y += floats.Dot(p.coef, x)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrediction, y)
	}
	return clamp(y), nil
}

// RatioPredictor passes a precomputed win-ratio feature through unchanged.
type RatioPredictor struct {
	Feature string
}

// Predict returns the configured feature's value.
func (p RatioPredictor) Predict(ctx context.Context, f model.Features) (float64, error) {
	name := p.Feature
	if name == "" {
		name = DefaultRatioFeature
	}
	v, ok := f[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingFeature, name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrediction, v)
	}
	return v, nil
}

// BuildRoster predicts a win-ratio for each record, keeping record order.
// Roster shape is not checked here; the partitioner validates it.
func BuildRoster(ctx context.Context, p Predictor, records []model.PlayerRecord) (model.Roster, error) {
	roster := make(model.Roster, 0, len(records))
	for _, rec := range records {
		wr, err := p.Predict(ctx, rec.Features)
		if err != nil {
			return nil, fmt.Errorf("predict %q: %w", rec.Name, err)
		}
		roster = append(roster, model.Player{ID: rec.Name, WinRatio: wr})
	}
	return roster, nil
}

func clamp(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// FromWeights returns a LinearPredictor over weights and bias, or a
// RatioPredictor when no weights are configured.
func FromWeights(weights map[string]float64, bias float64) Predictor {
	if len(weights) == 0 {
		return RatioPredictor{}
	}
	return NewLinearPredictor(WithFeatureWeights(weights), WithBias(bias))
}
