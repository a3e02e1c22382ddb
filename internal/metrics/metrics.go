// Package metrics expone los collectors Prometheus del servicio.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestDuration mide latencia por método/ruta/status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dartsstats",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// ProviderCalls cuenta llamadas al identity provider por operación y
	// resultado (ok / error).
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dartsstats",
		Subsystem: "auth",
		Name:      "provider_calls_total",
		Help:      "Calls to the identity provider.",
	}, []string{"op", "outcome"})

	// CacheOps cuenta hits y misses del cache por área.
	CacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dartsstats",
		Subsystem: "cache",
		Name:      "ops_total",
		Help:      "Cache hits and misses.",
	}, []string{"area", "result"})

	// LoginsStarted cuenta logins iniciados.
	LoginsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dartsstats",
		Subsystem: "auth",
		Name:      "logins_started_total",
		Help:      "Login flows initiated.",
	})

	// LoginsCompleted cuenta callbacks resueltos por resultado
	// (success / invalid_state / exchange_failed).
	LoginsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dartsstats",
		Subsystem: "auth",
		Name:      "logins_completed_total",
		Help:      "Login callbacks by outcome.",
	}, []string{"outcome"})
)

// ObserveProviderCall registra una llamada al provider.
func ObserveProviderCall(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ProviderCalls.WithLabelValues(op, outcome).Inc()
}

// CacheHit / CacheMiss registran el resultado de un lookup.
func CacheHit(area string)  { CacheOps.WithLabelValues(area, "hit").Inc() }
func CacheMiss(area string) { CacheOps.WithLabelValues(area, "miss").Inc() }

// Handler expone /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
