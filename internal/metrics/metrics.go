// Package metrics exposes Prometheus counters and an optional HTTP server
// with /metrics and /healthz endpoints.
package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the alert engine.
type Metrics struct {
	PassesTotal     prometheus.Counter
	RulesEvaluated  prometheus.Counter
	AlertsTriggered *prometheus.CounterVec // labels: indicator
	NotifyFailures  prometheus.Counter
	DataErrors      prometheus.Counter
	EpisodesActive  prometheus.Gauge
	PassDuration    prometheus.Histogram
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		PassesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "klinewatch_passes_total",
			Help: "Total evaluation passes executed",
		}),
		RulesEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "klinewatch_rules_evaluated_total",
			Help: "Total per-rule evaluations",
		}),
		AlertsTriggered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "klinewatch_alerts_triggered_total",
			Help: "Threshold-crossing notifications produced (by indicator)",
		}, []string{"indicator"}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "klinewatch_notify_failures_total",
			Help: "Notification deliveries that failed",
		}),
		DataErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "klinewatch_data_errors_total",
			Help: "Rules skipped due to empty or failed kline retrieval",
		}),
		EpisodesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "klinewatch_episodes_active",
			Help: "Alert identities currently in an active episode",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "klinewatch_pass_duration_seconds",
			Help:    "Evaluation pass latency",
			Buckets: prometheus.DefBuckets,
		}),
	}

	prometheus.MustRegister(
		m.PassesTotal,
		m.RulesEvaluated,
		m.AlertsTriggered,
		m.NotifyFailures,
		m.DataErrors,
		m.EpisodesActive,
		m.PassDuration,
	)

	return m
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	srv       *http.Server
	startedAt time.Time
}

// NewServer creates a metrics and health server.
func NewServer(addr string) *Server {
	s := &Server{startedAt: time.Now()}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.handleHealth)

	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}{
		Status: "ok",
		Uptime: time.Since(s.startedAt).Round(time.Second).String(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] metrics server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[ERROR] metrics server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
