// Package feature assembles the ordered feature vector consumed by the
// external regression model.
package feature

import (
	"fmt"

	"github.com/matslab/scpredict/internal/domain/mix"
)

// Zone is the marine exposure condition of the structure.
type Zone string

const (
	ZoneTidal     Zone = "Tidal zone"
	ZoneSplash    Zone = "Splash zone"
	ZoneSubmerged Zone = "Submerged zone"
)

// Zones returns the accepted exposure zones.
func Zones() []Zone {
	return []Zone{ZoneTidal, ZoneSplash, ZoneSubmerged}
}

// ParseZone validates a zone label supplied by the input layer.
func ParseZone(s string) (Zone, error) {
	switch Zone(s) {
	case ZoneTidal, ZoneSplash, ZoneSubmerged:
		return Zone(s), nil
	}
	return "", fmt.Errorf("unknown exposure zone %q", s)
}

// Encoding is the one-hot triple for a zone. Exactly one flag is 1.
type Encoding struct {
	Tidal     float64
	Splash    float64
	Submerged float64
}

// Encode derives the one-hot triple for the zone.
func (z Zone) Encode() Encoding {
	switch z {
	case ZoneSplash:
		return Encoding{Splash: 1}
	case ZoneSubmerged:
		return Encoding{Submerged: 1}
	default:
		return Encoding{Tidal: 1}
	}
}

// Environment holds the exposure-site inputs collected alongside the mix.
type Environment struct {
	Chloride    float64 // g/L in seawater
	Temperature float64 // mean annual, °C
	Zone        Zone
}

// FieldCount is the width of the model's input row.
const FieldCount = 15

// Vector is one input row for the regression model. The struct field order
// is the order the model was trained with; reordering fields silently breaks
// predictions, so the declaration below is the contract.
type Vector struct {
	Cement           float64 `json:"Cement"`
	FineAggregate    float64 `json:"Fine aggregate"`
	CoarseAggregate  float64 `json:"Coarse aggregate"`
	Water            float64 `json:"Water"`
	WaterBinderRatio float64 `json:"Water-binder ratio"`
	Superplasticizer float64 `json:"Superplasticizer"`
	FlyAsh           float64 `json:"Fly ash"`
	SilicaFume       float64 `json:"Silica fume"`
	BlastFurnaceSlag float64 `json:"Blast furnace slag"`
	Chloride         float64 `json:"Cl content in seawater"`
	Temperature      float64 `json:"Annual temperature"`
	ExposureTime     float64 `json:"Exposure time"`
	TidalZone        float64 `json:"Tidal zone"`
	SplashZone       float64 `json:"Splash zone"`
	SubmergedZone    float64 `json:"Submerged zone"`
}

// Assemble builds the vector for one exposure time from a validated design.
// Pure: identical inputs always produce an identical vector.
func Assemble(d mix.Design, waterBinderRatio float64, env Environment, exposureTime float64) Vector {
	enc := env.Zone.Encode()
	return Vector{
		Cement:           d.Quantity(mix.Cement),
		FineAggregate:    d.Quantity(mix.FineAggregate),
		CoarseAggregate:  d.Quantity(mix.CoarseAggregate),
		Water:            d.Quantity(mix.Water),
		WaterBinderRatio: waterBinderRatio,
		Superplasticizer: d.Quantity(mix.Superplasticizer),
		FlyAsh:           d.Quantity(mix.FlyAsh),
		SilicaFume:       d.Quantity(mix.SilicaFume),
		BlastFurnaceSlag: d.Quantity(mix.BlastFurnaceSlag),
		Chloride:         env.Chloride,
		Temperature:      env.Temperature,
		ExposureTime:     exposureTime,
		TidalZone:        enc.Tidal,
		SplashZone:       enc.Splash,
		SubmergedZone:    enc.Submerged,
	}
}

// Row flattens the vector into the canonical model order.
func (v Vector) Row() [FieldCount]float64 {
	return [FieldCount]float64{
		v.Cement,
		v.FineAggregate,
		v.CoarseAggregate,
		v.Water,
		v.WaterBinderRatio,
		v.Superplasticizer,
		v.FlyAsh,
		v.SilicaFume,
		v.BlastFurnaceSlag,
		v.Chloride,
		v.Temperature,
		v.ExposureTime,
		v.TidalZone,
		v.SplashZone,
		v.SubmergedZone,
	}
}

// Names returns the model feature names in canonical order. The predictor
// adapter sends these alongside Row so the inference service can verify the
// schema.
func Names() [FieldCount]string {
	return [FieldCount]string{
		"Cement",
		"Fine aggregate",
		"Coarse aggregate",
		"Water",
		"Water-binder ratio",
		"Superplasticizer",
		"Fly ash",
		"Silica fume",
		"Blast furnace slag",
		"Cl content in seawater",
		"Annual temperature",
		"Exposure time",
		"Tidal zone",
		"Splash zone",
		"Submerged zone",
	}
}
