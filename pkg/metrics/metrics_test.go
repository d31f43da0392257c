package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording pass metrics", func() {
			Convey("Then it should record passes", func() {
				So(func() {
					RecordPass()
					RecordPass()
				}, ShouldNotPanic)
			})

			Convey("And it should record validation failures by gate", func() {
				So(func() {
					RecordValidationFailure("water_binder_ratio")
					RecordValidationFailure("batch_volume")
				}, ShouldNotPanic)
			})

			Convey("And it should record sweep truncations", func() {
				So(func() {
					RecordSweepTruncation()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording predictor metrics", func() {
			Convey("Then it should record predictions and errors", func() {
				So(func() {
					RecordPrediction()
					RecordPredictionError()
					RecordPredictorLatency(42.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording history and export metrics", func() {
			Convey("Then it should record writes, errors, and exports", func() {
				So(func() {
					RecordHistoryWrite()
					RecordHistoryError()
					RecordExport("xlsx")
					RecordExport("pdf")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record requests and durations", func() {
				So(func() {
					RecordHTTPRequest("predict", "POST", "200")
					RecordHTTPRequestDuration("predict", "POST", "200", 12.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When updating system metrics", func() {
			Convey("Then it should update gauges", func() {
				So(func() {
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(8)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		Convey("When gathering after recording", func() {
			RecordPass()
			families, err := GetRegistry().Gather()

			Convey("Then the pass counter is exposed", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "scpredict_svc_passes_total")
			})
		})
	})
}
