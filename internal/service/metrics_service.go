package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for both the HTTP
// surface and the evolutionary search itself.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	runDuration       *prometheus.HistogramVec
	runGenerations    *prometheus.HistogramVec
	runFinalFitness   *prometheus.GaugeVec
	runConvergedTotal *prometheus.CounterVec
	lockContention    *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "Wall-clock duration of a complete timetable generation run",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"department"})

	runGenerations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_generation_count",
		Help:    "Number of generations evaluated before a run stopped",
		Buckets: []float64{10, 25, 50, 100, 200, 300, 500},
	}, []string{"department"})

	runFinalFitness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "timetable_final_fitness",
		Help: "Fitness score of the best chromosome at the end of the most recent run",
	}, []string{"department"})

	runConvergedTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generation_runs_total",
		Help: "Total completed generation runs by outcome",
	}, []string{"department", "outcome"})

	lockContention := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generation_lock_contention_total",
		Help: "Total attempts to start a run that found the department/term lock already held",
	}, []string{"department"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runDuration, runGenerations, runFinalFitness, runConvergedTotal, lockContention, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		runDuration:       runDuration,
		runGenerations:    runGenerations,
		runFinalFitness:   runFinalFitness,
		runConvergedTotal: runConvergedTotal,
		lockContention:    lockContention,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGenerationRun records the outcome of one completed generation run.
func (m *MetricsService) ObserveGenerationRun(departmentKey string, duration time.Duration, generations int, finalFitness float64, converged bool) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues(departmentKey).Observe(duration.Seconds())
	m.runGenerations.WithLabelValues(departmentKey).Observe(float64(generations))
	m.runFinalFitness.WithLabelValues(departmentKey).Set(finalFitness)

	outcome := "exhausted"
	if converged {
		outcome = "converged"
	}
	m.runConvergedTotal.WithLabelValues(departmentKey, outcome).Inc()
}

// ObserveLockContention records that a run request found the department/term
// lock already held by another in-flight run.
func (m *MetricsService) ObserveLockContention(departmentKey string) {
	if m == nil {
		return
	}
	m.lockContention.WithLabelValues(departmentKey).Inc()
}
