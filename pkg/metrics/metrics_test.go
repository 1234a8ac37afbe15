package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			m.sessionsIngested.WithLabelValues("GARMIN_R10", "persisted").Inc()

			Convey("Then collectors are registered under the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_unit_sessions_total"], ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(m.namespace, ShouldEqual, "fairway")
				So(m.subsystem, ShouldEqual, "ingest")
				So(m.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When ingestion metrics are recorded", func() {
			before := testutil.ToFloat64(globalManager.shotsIngested.WithLabelValues("AWESOME_GOLF"))
			RecordShotsIngested("AWESOME_GOLF", 12)
			RecordRowSkipped("AWESOME_GOLF", "malformed_row")
			RecordSessionIngested("AWESOME_GOLF", "persisted")

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.shotsIngested.WithLabelValues("AWESOME_GOLF")), ShouldEqual, before+12)
				So(testutil.ToFloat64(globalManager.rowsSkipped.WithLabelValues("AWESOME_GOLF", "malformed_row")), ShouldBeGreaterThanOrEqualTo, 1.0)
			})
		})

		Convey("When gauges are updated", func() {
			UpdateQueueSize(7)
			UpdateStoredSessions(3)

			Convey("Then they hold the last value", func() {
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7.0)
				So(testutil.ToFloat64(globalManager.storedSessions), ShouldEqual, 3.0)
			})
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
