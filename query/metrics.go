package query

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several servers can live in one
// process.
type Metrics struct {
	registry *prometheus.Registry

	questionsTotal      *prometheus.CounterVec
	fallbacksTotal      *prometheus.CounterVec
	questionErrors      prometheus.Counter
	httpRequestDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		questionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datamilo_questions_total",
				Help: "Questions answered by template and statement source",
			},
			[]string{"template", "source"},
		),
		fallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datamilo_fallbacks_total",
				Help: "Generated statements replaced by a template",
			},
			[]string{"reason"},
		),
		questionErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "datamilo_question_errors_total",
				Help: "Questions that failed with an execution error",
			},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *Metrics) ObserveAnswer(template, source, fallbackReason string) {
	m.questionsTotal.WithLabelValues(template, source).Inc()
	if fallbackReason != "" {
		m.fallbacksTotal.WithLabelValues(fallbackReason).Inc()
	}
}

func (m *Metrics) ObserveError() {
	m.questionErrors.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records the duration of every routed request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.httpRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
