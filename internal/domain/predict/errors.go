package predict

import "errors"

// Sentinel kinds for prediction errors.
var (
	ErrMissingFeature    = errors.New("missing feature")
	ErrInvalidPrediction = errors.New("invalid prediction")
)
