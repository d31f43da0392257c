package mix_test

import (
	"errors"
	"testing"

	"github.com/matslab/scpredict/internal/domain/mix"
	. "github.com/smartystreets/goconvey/convey"
)

func scenarioDesign() mix.Design {
	d := mix.DefaultDesign()
	d[mix.Cement] = mix.Portion{Quantity: 325, SpecificGravity: 2.65}
	d[mix.FineAggregate] = mix.Portion{Quantity: 650, SpecificGravity: 2.65}
	d[mix.CoarseAggregate] = mix.Portion{Quantity: 1050, SpecificGravity: 2.65}
	d[mix.Water] = mix.Portion{Quantity: 180, SpecificGravity: 1.0}
	d[mix.Superplasticizer] = mix.Portion{Quantity: 8, SpecificGravity: 2.65}
	d[mix.FlyAsh] = mix.Portion{Quantity: 50, SpecificGravity: 2.65}
	d[mix.SilicaFume] = mix.Portion{Quantity: 10, SpecificGravity: 2.65}
	d[mix.BlastFurnaceSlag] = mix.Portion{Quantity: 30, SpecificGravity: 2.65}
	return d
}

func TestDerivedQuantities(t *testing.T) {
	Convey("Given the reference mix design", t, func() {
		d := scenarioDesign()

		Convey("Then binder mass sums the cementitious components", func() {
			So(d.BinderMass(), ShouldEqual, 415.0)
		})

		Convey("Then the water-binder ratio divides water by binder", func() {
			So(d.WaterBinderRatio(), ShouldAlmostEqual, 180.0/415.0, 1e-12)
		})

		Convey("Then the batch volume sums the volumetric contributions", func() {
			// Non-water solids: 2123 kg at SG 2.65, water 180 kg at SG 1.0.
			want := 2123.0/2650.0 + 180.0/1000.0
			So(d.BatchVolume(), ShouldAlmostEqual, want, 1e-12)
		})

		Convey("And the batch volume matches a manual component-by-component sum", func() {
			var want float64
			for _, p := range d {
				want += p.Quantity / (p.SpecificGravity * 1000)
			}
			So(d.BatchVolume(), ShouldAlmostEqual, want, 1e-12)
		})

		Convey("Then both gates pass", func() {
			s, err := d.Validate()
			So(err, ShouldBeNil)
			So(s.BinderMass, ShouldEqual, 415.0)
			So(s.WaterBinderRatio, ShouldBeBetween, 0.30, 0.70)
			So(s.BatchVolume, ShouldBeBetween, 0.95, 1.05)
		})
	})
}

func TestZeroBinderMass(t *testing.T) {
	Convey("Given a design with no cementitious components", t, func() {
		d := scenarioDesign()
		d[mix.Cement] = mix.Portion{SpecificGravity: 2.65}
		d[mix.FlyAsh] = mix.Portion{SpecificGravity: 2.65}
		d[mix.SilicaFume] = mix.Portion{SpecificGravity: 2.65}
		d[mix.BlastFurnaceSlag] = mix.Portion{SpecificGravity: 2.65}

		Convey("Then the water-binder ratio is exactly zero, not a fault", func() {
			So(d.WaterBinderRatio(), ShouldEqual, 0.0)
		})

		Convey("And validation fails on the ratio gate with the zero value", func() {
			_, err := d.Validate()
			var gateErr *mix.GateError
			So(errors.As(err, &gateErr), ShouldBeTrue)
			So(gateErr.Gate, ShouldEqual, mix.GateWaterBinderRatio)
			So(gateErr.Value, ShouldEqual, 0.0)
		})
	})
}

func TestRatioGateMonotonicity(t *testing.T) {
	Convey("Given a fixed binder and increasing water", t, func() {
		d := scenarioDesign()

		Convey("Then the ratio strictly increases with water", func() {
			prev := -1.0
			for _, w := range []float64{100, 150, 200, 250, 300} {
				d[mix.Water] = mix.Portion{Quantity: w, SpecificGravity: 1.0}
				r := d.WaterBinderRatio()
				So(r, ShouldBeGreaterThan, prev)
				prev = r
			}
		})

		Convey("And there is a water threshold past which the gate flips to fail", func() {
			// 0.70 * 415 = 290.5 kg water is the last passing value.
			d[mix.Water] = mix.Portion{Quantity: 290.5, SpecificGravity: 1.0}
			_, err := d.Validate()
			var gateErr *mix.GateError
			if errors.As(err, &gateErr) {
				// The volume gate may reject this much water; the ratio gate must not.
				So(gateErr.Gate, ShouldNotEqual, mix.GateWaterBinderRatio)
			}

			d[mix.Water] = mix.Portion{Quantity: 291, SpecificGravity: 1.0}
			_, err = d.Validate()
			So(errors.As(err, &gateErr), ShouldBeTrue)
			So(gateErr.Gate, ShouldEqual, mix.GateWaterBinderRatio)
			So(gateErr.Value, ShouldBeGreaterThan, 0.70)
		})
	})
}

func TestGateBoundsInclusive(t *testing.T) {
	Convey("Given designs sitting exactly on the gate bounds", t, func() {
		Convey("Then a ratio of exactly 0.30 passes", func() {
			d := scenarioDesign()
			d[mix.Water] = mix.Portion{Quantity: 124.5, SpecificGravity: 1.0} // 124.5 / 415 = 0.30
			s, err := d.Validate()
			So(err, ShouldBeNil)
			So(s.WaterBinderRatio, ShouldAlmostEqual, 0.30, 1e-12)
		})

		Convey("Then a ratio just below 0.30 fails", func() {
			d := scenarioDesign()
			d[mix.Water] = mix.Portion{Quantity: 0.29 * 415, SpecificGravity: 1.0}
			_, err := d.Validate()
			var gateErr *mix.GateError
			So(errors.As(err, &gateErr), ShouldBeTrue)
			So(gateErr.Gate, ShouldEqual, mix.GateWaterBinderRatio)
		})
	})
}

func TestVolumeGate(t *testing.T) {
	Convey("Given a design whose volume falls outside the window", t, func() {
		d := scenarioDesign()
		// Dropping the coarse aggregate leaves the ratio untouched but sinks
		// the volume well below 0.95.
		d[mix.CoarseAggregate] = mix.Portion{SpecificGravity: 2.65}

		Convey("Then validation fails on the volume gate with the computed value", func() {
			_, err := d.Validate()
			var gateErr *mix.GateError
			So(errors.As(err, &gateErr), ShouldBeTrue)
			So(gateErr.Gate, ShouldEqual, mix.GateBatchVolume)
			So(gateErr.Value, ShouldBeLessThan, 0.95)
			So(gateErr.Min, ShouldEqual, 0.95)
			So(gateErr.Max, ShouldEqual, 1.05)
		})

		Convey("And the ratio gate is evaluated first on a doubly bad design", func() {
			d[mix.Water] = mix.Portion{Quantity: 500, SpecificGravity: 1.0}
			_, err := d.Validate()
			var gateErr *mix.GateError
			So(errors.As(err, &gateErr), ShouldBeTrue)
			So(gateErr.Gate, ShouldEqual, mix.GateWaterBinderRatio)
		})
	})
}

func TestCatalogDefaults(t *testing.T) {
	Convey("Given the component catalog", t, func() {
		catalog := mix.Catalog()

		Convey("Then it lists the eight fixed components", func() {
			So(len(catalog), ShouldEqual, 8)
			So(len(mix.Components()), ShouldEqual, 8)
		})

		Convey("Then water defaults to specific gravity 1.0, others 2.65", func() {
			for _, e := range catalog {
				if e.Component == mix.Water {
					So(e.DefaultGravity, ShouldEqual, 1.0)
				} else {
					So(e.DefaultGravity, ShouldEqual, 2.65)
				}
			}
		})

		Convey("Then the default design passes both gates", func() {
			_, err := mix.DefaultDesign().Validate()
			So(err, ShouldBeNil)
		})
	})
}
