package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the default refresh interval", func() {
				So(manager, ShouldNotBeNil)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pfx"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.analysesTotal.WithLabelValues("result").Inc()

			Convey("Then collectors should be registered under the custom names", func() {
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_pfx_analyses_total")
			})
		})

		Convey("When two managers share one registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		m := Default()

		Convey("When recording analyses by state", func() {
			before := testutil.ToFloat64(m.analysesTotal.WithLabelValues("not_found"))
			RecordAnalysis("not_found", 12)
			RecordAnalysis("not_found", 8)

			Convey("Then the state counter should advance", func() {
				So(testutil.ToFloat64(m.analysesTotal.WithLabelValues("not_found")), ShouldEqual, before+2)
			})
		})

		Convey("When the data source connects and fetches", func() {
			UpdateSourceConnected(true)
			RecordSourceFetch(42, 17)

			Convey("Then the gauges should reflect it", func() {
				So(testutil.ToFloat64(m.sourceConnected), ShouldEqual, 1)
				So(testutil.ToFloat64(m.sourceRowsFetched), ShouldEqual, 17)
			})

			Convey("And disconnecting should reset the gauge", func() {
				UpdateSourceConnected(false)
				So(testutil.ToFloat64(m.sourceConnected), ShouldEqual, 0)
			})
		})

		Convey("When recording fetch errors and LLM calls", func() {
			before := testutil.ToFloat64(m.sourceFetchErrors.WithLabelValues("schema"))
			RecordSourceFetchError("schema")
			llmBefore := testutil.ToFloat64(m.llmRequests.WithLabelValues("anthropic", "error"))
			RecordLLMRequest("anthropic", "error", 300)

			Convey("Then the labelled counters should advance", func() {
				So(testutil.ToFloat64(m.sourceFetchErrors.WithLabelValues("schema")), ShouldEqual, before+1)
				So(testutil.ToFloat64(m.llmRequests.WithLabelValues("anthropic", "error")), ShouldEqual, llmBefore+1)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordHTTPRequest("analyses", "POST", "200")
					RecordHTTPRequestDuration("analyses", "POST", "200", 123)
					RecordErrorByComponent("sheets", "fetch")
					RecordErrorByType("server_error", "high")
					RecordErrorByEndpoint("analyses", "POST", "server_error")
					RecordErrorLatency("http", "server_error", 10)
					RecordRecordsMatched(3)
					RecordLLMResponseSize(2048)
					UpdateSystemMemoryUsage(1024 * 1024)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then it should succeed without default Go collectors", func() {
				So(err, ShouldBeNil)
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "recupero_dashboard_")
				}
			})
		})
	})
}
