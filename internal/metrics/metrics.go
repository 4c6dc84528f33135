package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors, registered via Register.
var (
	regOK atomic.Bool

	appUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "appsentry",
			Subsystem: "app",
			Name:      "up",
			Help:      "Whether the managed application is currently running.",
		}, []string{"name"},
	)
	appStarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appsentry",
			Subsystem: "app",
			Name:      "starts_total",
			Help:      "Number of successful application starts.",
		}, []string{"name"},
	)
	appRestarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appsentry",
			Subsystem: "app",
			Name:      "restarts_total",
			Help:      "Number of automatic restarts after unexpected exits.",
		}, []string{"name"},
	)
	appStops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appsentry",
			Subsystem: "app",
			Name:      "stops_total",
			Help:      "Number of observed application exits (graceful or not).",
		}, []string{"name"},
	)
)

// Register registers all collectors with r. Safe to call more than once;
// an AlreadyRegisteredError keeps the existing collector.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	for _, c := range []prometheus.Collector{appUp, appStarts, appRestarts, appStops} {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

func SetUp(name string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	appUp.WithLabelValues(name).Set(v)
}

func IncStart(name string)   { appStarts.WithLabelValues(name).Inc() }
func IncRestart(name string) { appRestarts.WithLabelValues(name).Inc() }
func IncStop(name string)    { appStops.WithLabelValues(name).Inc() }

// Handler exposes the default registry for the run-mode HTTP server.
func Handler() http.Handler { return promhttp.Handler() }
