package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/skugen-backend/internal/platform/logger"
)

const DefaultNamespace = "skugen"

// Metrics is the service's prometheus surface. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	skusGenerated  prometheus.Counter
	skusAccepted   prometheus.Counter
	skusDropped    prometheus.Counter
	collectionSize prometheus.Gauge
	persists       *prometheus.CounterVec
	exports        *prometheus.CounterVec

	blobOps   *prometheus.HistogramVec
	dbStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge

	scrapeInterval time.Duration
}

// NewMetrics registers every collector on reg. A nil reg gets a fresh
// registry with the Go and process collectors attached.
func NewMetrics(namespace string, reg *prometheus.Registry) (*Metrics, error) {
	if strings.TrimSpace(namespace) == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m := &Metrics{registry: reg, scrapeInterval: 10 * time.Second}
	var err error

	if m.apiRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total API requests by method/route/status.",
	}, []string{"method", "route", "status"})); err != nil {
		return nil, err
	}
	if m.apiLatency, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "API request latency in seconds by method/route/status.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method", "route", "status"})); err != nil {
		return nil, err
	}
	if m.apiInflight, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "api_inflight_requests",
		Help:      "In-flight API requests.",
	})); err != nil {
		return nil, err
	}
	if m.skusGenerated, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skus_generated_total",
		Help:      "Candidate SKU records produced by generation.",
	})); err != nil {
		return nil, err
	}
	if m.skusAccepted, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skus_accepted_total",
		Help:      "Candidate SKU records appended to the collection.",
	})); err != nil {
		return nil, err
	}
	if m.skusDropped, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skus_dropped_total",
		Help:      "Candidate SKU records dropped as duplicates.",
	})); err != nil {
		return nil, err
	}
	if m.collectionSize, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "collection_size",
		Help:      "Records currently held in the SKU collection.",
	})); err != nil {
		return nil, err
	}
	if m.persists, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persist_total",
		Help:      "Write-through persistence attempts by slot/status.",
	}, []string{"slot", "status"})); err != nil {
		return nil, err
	}
	if m.exports, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Collection exports by format.",
	}, []string{"format"})); err != nil {
		return nil, err
	}
	if m.blobOps, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "blob_operation_duration_seconds",
		Help:      "Blob store latency by driver/operation/status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"driver", "operation", "status"})); err != nil {
		return nil, err
	}
	if m.dbStats, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_pool_stats",
		Help:      "database/sql pool statistics for the blob store connection.",
	}, []string{"stat"})); err != nil {
		return nil, err
	}
	if m.redisUp, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "redis_up",
		Help:      "1 when the last redis ping succeeded.",
	})); err != nil {
		return nil, err
	}
	if m.redisPing, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "redis_ping_seconds",
		Help:      "Latency of the last redis ping.",
	})); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveGenerate records one generation: generated candidates, of which
// accepted were appended.
func (m *Metrics) ObserveGenerate(generated, accepted int) {
	if m == nil {
		return
	}
	m.skusGenerated.Add(float64(generated))
	m.skusAccepted.Add(float64(accepted))
	if dropped := generated - accepted; dropped > 0 {
		m.skusDropped.Add(float64(dropped))
	}
}

func (m *Metrics) ObservePersist(slot string, err error) {
	if m == nil {
		return
	}
	m.persists.WithLabelValues(slot, statusOf(err)).Inc()
}

func (m *Metrics) ObserveCollectionSize(n int) {
	if m == nil {
		return
	}
	m.collectionSize.Set(float64(n))
}

func (m *Metrics) IncExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

func (m *Metrics) ObserveBlobOperation(driver, operation, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.blobOps.WithLabelValues(driver, operation, status).Observe(dur.Seconds())
}

// StartDBCollector samples the pool stats of db until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
			}
		}
	}()
}

// StartRedisCollector pings addr on every scrape interval until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, opts *redis.Options) {
	if m == nil || opts == nil || strings.TrimSpace(opts.Addr) == "" {
		return
	}
	rdb := redis.NewClient(opts)
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
