package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reconciliation kinds
const (
	KindModules  = "modules"
	KindFeatures = "features"
)

// Metrics holds the collectors of one server. Each instance owns its
// registry so several servers can live in one process.
type Metrics struct {
	ServiceName string

	registry *prometheus.Registry

	RequestCounter            *prometheus.CounterVec
	RequestDurationHistogram  *prometheus.HistogramVec
	StatusCodeCategoryCounter *prometheus.CounterVec
	ReconciliationCounter     *prometheus.CounterVec
	ReconciliationChanges     *prometheus.CounterVec
}

// New creates and registers the collectors for serviceName
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		ServiceName: serviceName,
		registry:    reg,

		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "path", "status"},
		),

		RequestDurationHistogram: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Duration of HTTP requests in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "path", "status"},
		),

		StatusCodeCategoryCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_status_category_total",
				Help:        "Total number of responses by status category (2xx, 4xx, 5xx)",
				ConstLabels: constLabels,
			},
			[]string{"category", "method", "path"},
		),

		ReconciliationCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "reconciliations_total",
				Help:        "Total number of reconciliations by kind and result (success, info, error)",
				ConstLabels: constLabels,
			},
			[]string{"kind", "result"},
		),

		ReconciliationChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "reconciliation_changes_total",
				Help:        "Total number of rows written by reconciliations",
				ConstLabels: constLabels,
			},
			[]string{"kind", "op"},
		),
	}
}

// Registry returns the registry backing m
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveReconciliation records one reconciliation outcome. ops maps an
// operation name ("add", "remove", "enable", "disable") to its row count.
func (m *Metrics) ObserveReconciliation(kind, result string, ops map[string]int) {
	if m == nil {
		return
	}
	m.ReconciliationCounter.WithLabelValues(kind, result).Inc()
	for op, n := range ops {
		if n > 0 {
			m.ReconciliationChanges.WithLabelValues(kind, op).Add(float64(n))
		}
	}
}

func category(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// routePath labels a request with its mux route template so path
// parameters don't explode label cardinality
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// Middleware records request metrics. It must be installed with
// Router.Use so the matched route is known.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		snoop := httpsnoop.CaptureMetrics(next, w, r)

		method := r.Method
		path := routePath(r)
		status := strconv.Itoa(snoop.Code)

		m.RequestCounter.WithLabelValues(method, path, status).Inc()
		m.RequestDurationHistogram.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		if c := category(snoop.Code); c != "" {
			m.StatusCodeCategoryCounter.WithLabelValues(c, method, path).Inc()
		}
	})
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
