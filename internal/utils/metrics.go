// Package utils provides utility functions including metrics collection.
package utils

import (
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	pricePollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitchen_price_polls_total",
		Help: "Total number of price poll attempts, by outcome",
	}, []string{"outcome"})

	priceSnapshotsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitchen_price_snapshots_written_total",
		Help: "Total number of price snapshot rows written",
	})

	trackedItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kitchen_tracked_items",
		Help: "Number of items known from the prices API mapping",
	})

	guestsReapedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kitchen_guests_reaped_total",
		Help: "Total number of stale guest accounts purged",
	})

	profitQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitchen_profit_queries_total",
		Help: "Total number of recipe profit computations served, by pricing mode",
	}, []string{"mode"})

	//nolint:unused // Registered for Prometheus scraping only
	activeGoroutines = promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "kitchen_goroutines_active",
		Help: "Number of active goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitchen_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "endpoint", "status_code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kitchen_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})
)

// MetricsCollector collects basic application metrics.
type MetricsCollector struct {
	startTime        time.Time
	snapshotsWritten int64
	guestsReaped     int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		startTime: time.Now(),
	}
}

// RecordPoll records the outcome of one price poll tick.
func (m *MetricsCollector) RecordPoll(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	pricePollsTotal.WithLabelValues(outcome).Inc()
}

// RecordSnapshots records price snapshot rows written by the poller.
func (m *MetricsCollector) RecordSnapshots(n int) {
	atomic.AddInt64(&m.snapshotsWritten, int64(n))
	priceSnapshotsWritten.Add(float64(n))
}

// SetTrackedItems sets the current size of the item mapping.
func (m *MetricsCollector) SetTrackedItems(n int) {
	trackedItems.Set(float64(n))
}

// RecordGuestsReaped records purged guest accounts.
func (m *MetricsCollector) RecordGuestsReaped(n int) {
	atomic.AddInt64(&m.guestsReaped, int64(n))
	guestsReapedTotal.Add(float64(n))
}

// RecordProfitQuery records a served recipe profit computation.
func (m *MetricsCollector) RecordProfitQuery(mode string) {
	profitQueriesTotal.WithLabelValues(mode).Inc()
}

// RecordHTTPRequest records an HTTP request metric.
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// GetMetrics returns the current metrics as a JSON-serializable struct.
func (m *MetricsCollector) GetMetrics() *Metrics {
	return &Metrics{
		Uptime:           time.Since(m.startTime).String(),
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
		Goroutines:       runtime.NumGoroutine(),
		SnapshotsWritten: atomic.LoadInt64(&m.snapshotsWritten),
		GuestsReaped:     atomic.LoadInt64(&m.guestsReaped),
	}
}

// Metrics represents the application metrics.
type Metrics struct {
	Uptime           string `json:"uptime"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
	Goroutines       int    `json:"goroutines"`
	SnapshotsWritten int64  `json:"snapshots_written"`
	GuestsReaped     int64  `json:"guests_reaped"`
}
