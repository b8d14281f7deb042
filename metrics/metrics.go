// Package metrics provides Prometheus instrumentation for the sizer.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsTotal counts handled input events by kind and outcome.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sizer_events_total",
		Help: "Input events handled, by kind and outcome",
	}, []string{"kind", "outcome"})

	// Calculations counts sizing runs, split by whether a position was sized.
	Calculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sizer_calculations_total",
		Help: "Sizing calculations, by result (sized or zero)",
	}, []string{"result"})

	// SettingsWriteErrors counts failed writes of the settings record.
	SettingsWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sizer_settings_write_errors_total",
		Help: "Failed settings writes",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sizer_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sizer_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sizer_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// ObserveCalculation records one sizing run.
func ObserveCalculation(contracts int) {
	if contracts > 0 {
		Calculations.WithLabelValues("sized").Inc()
		return
	}
	Calculations.WithLabelValues("zero").Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency. Mount it on a chi router.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePattern labels a request by the chi route it matched, so ids in paths
// and unknown paths do not each create a series.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets WebSocket upgrades pass through the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
