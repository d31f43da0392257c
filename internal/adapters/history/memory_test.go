package history_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/matslab/scpredict/internal/adapters/history"
	. "github.com/smartystreets/goconvey/convey"
)

func record(i int) history.Record {
	return history.Record{
		PassID:           fmt.Sprintf("pass-%d", i),
		CreatedAt:        time.Now().UTC(),
		Zone:             "Splash zone",
		Chloride:         19,
		Temperature:      25,
		WaterBinderRatio: 0.43,
		BatchVolume:      0.98,
		SampleCount:      2,
		Samples: history.SampleList{
			{ExposureTime: 0.5, PredictedSC: 0.1},
			{ExposureTime: 3, PredictedSC: 0.2},
		},
	}
}

func TestMemoryRecorder(t *testing.T) {
	Convey("Given an in-memory recorder", t, func() {
		rec := history.NewMemoryRecorder(history.WithMemoryLimit(3))
		ctx := context.Background()

		Convey("When recording passes", func() {
			for i := 1; i <= 2; i++ {
				So(rec.Record(ctx, record(i)), ShouldBeNil)
			}

			Convey("Then Recent returns them newest first", func() {
				recs, err := rec.Recent(ctx, 10)
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 2)
				So(recs[0].PassID, ShouldEqual, "pass-2")
				So(recs[1].PassID, ShouldEqual, "pass-1")
			})

			Convey("Then a smaller limit trims the result", func() {
				recs, err := rec.Recent(ctx, 1)
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 1)
				So(recs[0].PassID, ShouldEqual, "pass-2")
			})
		})

		Convey("When recording past the retention limit", func() {
			for i := 1; i <= 5; i++ {
				So(rec.Record(ctx, record(i)), ShouldBeNil)
			}

			Convey("Then only the newest three remain", func() {
				recs, err := rec.Recent(ctx, 10)
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 3)
				So(recs[0].PassID, ShouldEqual, "pass-5")
				So(recs[2].PassID, ShouldEqual, "pass-3")
			})
		})
	})
}

func TestSampleListRoundTrip(t *testing.T) {
	Convey("Given a sample list stored as JSON", t, func() {
		in := history.SampleList{{ExposureTime: 1, PredictedSC: 0.3}}
		v, err := in.Value()
		So(err, ShouldBeNil)

		Convey("Then scanning the driver value restores it", func() {
			var out history.SampleList
			So(out.Scan(v), ShouldBeNil)
			So(out, ShouldResemble, in)
		})

		Convey("Then scanning nil clears the list", func() {
			out := history.SampleList{{ExposureTime: 2, PredictedSC: 0.4}}
			So(out.Scan(nil), ShouldBeNil)
			So(out, ShouldBeNil)
		})

		Convey("Then scanning an unsupported type fails", func() {
			var out history.SampleList
			So(out.Scan(42), ShouldNotBeNil)
		})
	})
}

// Compile-time interface checks.
var (
	_ history.Recorder = (*history.MemoryRecorder)(nil)
	_ history.Recorder = (*history.PostgresRecorder)(nil)
)
