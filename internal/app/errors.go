package app

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoPredictor    = errors.New("no predictor configured")
	ErrEnvironment    = errors.New("environment input out of range")
	ErrTooManySamples = errors.New("too many time samples")
)
