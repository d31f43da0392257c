package mix

import "fmt"

// Acceptance ranges for the two gates, both inclusive.
const (
	RatioMin  = 0.30
	RatioMax  = 0.70
	VolumeMin = 0.95
	VolumeMax = 1.05
)

// Gate names the check that rejected a design.
type Gate string

const (
	GateWaterBinderRatio Gate = "water_binder_ratio"
	GateBatchVolume      Gate = "batch_volume"
)

// GateError reports an out-of-range computed value. It is terminal for the
// current pass: no assembly or prediction runs until the inputs change.
type GateError struct {
	Gate  Gate
	Value float64
	Min   float64
	Max   float64
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s %.3f out of range [%.2f, %.2f]", e.Gate, e.Value, e.Min, e.Max)
}

// Summary carries the derived quantities of a design that passed both gates.
type Summary struct {
	BinderMass       float64
	WaterBinderRatio float64
	BatchVolume      float64
}

// Validate evaluates the ratio gate then the volume gate. It returns the
// computed summary on success, or a GateError for the first gate that fails.
func (d Design) Validate() (Summary, error) {
	s := Summary{
		BinderMass:       d.BinderMass(),
		WaterBinderRatio: d.WaterBinderRatio(),
		BatchVolume:      d.BatchVolume(),
	}
	if s.WaterBinderRatio < RatioMin || s.WaterBinderRatio > RatioMax {
		return Summary{}, &GateError{Gate: GateWaterBinderRatio, Value: s.WaterBinderRatio, Min: RatioMin, Max: RatioMax}
	}
	if s.BatchVolume < VolumeMin || s.BatchVolume > VolumeMax {
		return Summary{}, &GateError{Gate: GateBatchVolume, Value: s.BatchVolume, Min: VolumeMin, Max: VolumeMax}
	}
	return s, nil
}
