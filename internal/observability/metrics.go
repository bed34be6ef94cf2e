package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	settlementCounter     *prometheus.CounterVec
	settlementRetryCounter prometheus.Counter
	rateCacheCounter      *prometheus.CounterVec
	notificationCounter   *prometheus.CounterVec
	notificationQueueGauge prometheus.Gauge
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		settlementCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_settlements_total",
			Help: "Settlement attempts by outcome",
		}, []string{"outcome"})

		settlementRetryCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transfer_settlement_retries_total",
			Help: "Settlement transactions retried after storage contention",
		})

		rateCacheCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exchange_rate_lookups_total",
			Help: "Rate lookup outcomes (hit, miss, not_found)",
		}, []string{"result"})

		notificationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_events_total",
			Help: "Notification dispatch outcomes",
		}, []string{"result"})

		notificationQueueGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_queue_size",
			Help: "Events waiting in the notification dispatch queue",
		})

		prometheus.MustRegister(
			httpDurationHistogram,
			settlementCounter,
			settlementRetryCounter,
			rateCacheCounter,
			notificationCounter,
			notificationQueueGauge,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementSettlement(outcome string) {
	if settlementCounter == nil {
		return
	}
	settlementCounter.WithLabelValues(outcome).Inc()
}

func IncrementSettlementRetry() {
	if settlementRetryCounter == nil {
		return
	}
	settlementRetryCounter.Inc()
}

func IncrementRateCache(result string) {
	if rateCacheCounter == nil {
		return
	}
	rateCacheCounter.WithLabelValues(result).Inc()
}

func IncrementNotification(result string) {
	if notificationCounter == nil {
		return
	}
	notificationCounter.WithLabelValues(result).Inc()
}

func SetNotificationQueueSize(size int) {
	if notificationQueueGauge == nil {
		return
	}
	notificationQueueGauge.Set(float64(size))
}
