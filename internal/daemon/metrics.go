package daemon

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fuellog"

// metrics holds the gauges exported at /metrics. Each Service owns its own
// registry so several services can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	polls        prometheus.Counter
	pollErrors   prometheus.Counter
	pollDuration prometheus.Histogram

	logs           prometheus.Gauge
	purchases      prometheus.Gauge
	odometer       prometheus.Gauge
	windowDistance prometheus.Gauge
	windowCost     prometheus.Gauge
	windowSpent    prometheus.Gauge
	daysToRefuel   prometheus.Gauge
	rangeKm        prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	return &metrics{
		registry: reg,
		polls: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Total number of logbook polls",
		}),
		pollErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_errors_total",
			Help:      "Total number of failed logbook polls",
		}),
		pollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Logbook poll duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		logs:           gauge("logs", "Daily logs in the logbook"),
		purchases:      gauge("purchases", "Fuel purchases in the logbook"),
		odometer:       gauge("odometer_km", "Highest recorded odometer reading"),
		windowDistance: gauge("window_distance_km", "Distance driven in the trailing window"),
		windowCost:     gauge("window_cost", "Log fuel cost in the trailing window"),
		windowSpent:    gauge("window_spent", "Purchase spend in the trailing window"),
		daysToRefuel:   gauge("days_to_refuel", "Days until the forecast next refuel, negative when overdue"),
		rangeKm:        gauge("range_km", "Estimated remaining range"),
	}
}

func (m *metrics) observe(snap Snapshot) {
	m.logs.Set(float64(snap.Logs))
	m.purchases.Set(float64(snap.Purchases))
	m.odometer.Set(snap.Odometer)
	m.windowDistance.Set(snap.Distance)
	m.windowCost.Set(snap.Cost)
	m.windowSpent.Set(snap.Spent)
	if snap.DaysToRefuel != nil {
		m.daysToRefuel.Set(float64(*snap.DaysToRefuel))
	}
	if snap.RangeKm != nil {
		m.rangeKm.Set(*snap.RangeKm)
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
