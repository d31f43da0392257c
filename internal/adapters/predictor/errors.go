package predictor

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrUnavailable marks the model service as unreachable or unhealthy.
	// Fatal at startup: the tool cannot run without its model.
	ErrUnavailable = errors.New("model service unavailable")

	// ErrPredict marks a rejected or failed inference call.
	ErrPredict = errors.New("prediction request failed")
)
