package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewMetricsManager(
			WithNamespace("test_namespace"),
			WithSubsystem("test_subsystem"),
			WithMetricsEnabled(true),
			WithRefreshInterval(5*time.Second),
			WithPrometheusRegistry(registry),
		)

		Convey("Then they are applied to the manager", func() {
			So(manager.namespace, ShouldEqual, "test_namespace")
			So(manager.subsystem, ShouldEqual, "test_subsystem")
			So(manager.refreshInterval, ShouldEqual, 5*time.Second)
		})

		Convey("And metrics are registered on the custom registry", func() {
			manager.fetches.WithLabelValues(OutcomeUp).Inc()
			families, err := registry.Gather()
			So(err, ShouldBeNil)

			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "test_namespace_test_subsystem_fetches_total")
		})

		Convey("And empty options keep defaults", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithPrometheusRegistry(prometheus.NewRegistry()))
			So(m.namespace, ShouldEqual, "healthui")
			So(m.subsystem, ShouldEqual, "dashboard")
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager", t, func() {
		prevInterval, prevEnabled := RefreshInterval(), Enabled()
		Reset(func() {
			Configure(WithRefreshInterval(prevInterval), WithMetricsEnabled(prevEnabled))
		})

		Convey("When runtime options are applied", func() {
			Configure(WithRefreshInterval(3*time.Second), WithMetricsEnabled(false))

			Convey("Then the refresh interval and switch follow", func() {
				So(RefreshInterval(), ShouldEqual, 3*time.Second)
				So(Enabled(), ShouldBeFalse)
			})

			Convey("And disabled fetch recording leaves counters alone", func() {
				before := testutil.ToFloat64(globalManager.fetches.WithLabelValues(OutcomeNetwork))
				RecordFetch(OutcomeNetwork, 1)
				So(testutil.ToFloat64(globalManager.fetches.WithLabelValues(OutcomeNetwork)), ShouldEqual, before)
			})
		})

		Convey("When a non-positive interval is given", func() {
			Configure(WithRefreshInterval(0))
			So(RefreshInterval(), ShouldEqual, prevInterval)
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording fetch outcomes", func() {
			before := testutil.ToFloat64(globalManager.fetches.WithLabelValues(OutcomeParse))
			RecordFetch(OutcomeParse, 12)

			Convey("Then the outcome counter moves", func() {
				So(testutil.ToFloat64(globalManager.fetches.WithLabelValues(OutcomeParse)), ShouldEqual, before+1)
			})
		})

		Convey("When the poll interval changes", func() {
			UpdatePollInterval(10 * time.Second)
			So(testutil.ToFloat64(globalManager.pollInterval), ShouldEqual, 10)
			So(testutil.ToFloat64(globalManager.pollRunning), ShouldEqual, 1)

			UpdatePollInterval(0)
			So(testutil.ToFloat64(globalManager.pollRunning), ShouldEqual, 0)
		})

		Convey("When a view is applied", func() {
			RecordViewApplied(3, 1)
			So(testutil.ToFloat64(globalManager.checksRendered), ShouldEqual, 3)
			So(testutil.ToFloat64(globalManager.checksDown), ShouldEqual, 1)
		})

		Convey("When saving settings with a new endpoint", func() {
			before := testutil.ToFloat64(globalManager.endpointChanges)
			RecordSettingsSave(true)
			RecordSettingsSave(false)
			So(testutil.ToFloat64(globalManager.endpointChanges), ShouldEqual, before+1)
		})

		Convey("Then the remaining helpers do not panic", func() {
			So(func() {
				RecordStaleResponse()
				RecordSettingsError("get")
				UpdateStreamClients(2)
				RecordBroadcastDropped()
				RecordHTTPRequest("view", "GET", "200")
				RecordHTTPRequestDuration("view", "GET", "200", 1.5)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
			}, ShouldNotPanic)
		})

		Convey("And the registry gathers", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})
	})
}
