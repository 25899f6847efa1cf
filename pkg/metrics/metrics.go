package metrics

import (
	"sync"
	"time"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce sync.Once

	scanDurationMetric    prometheus.Histogram
	scanFailuresCounter   prometheus.Counter
	scansRejectedCounter  prometheus.Counter
	resourcesScannedVec   *prometheus.CounterVec
	priceCacheHitCounter  prometheus.Counter
	priceCacheMissCounter prometheus.Counter
	priceFallbackCounter  prometheus.Counter
	totalHourlyCostGauge  prometheus.Gauge
	totalDailyCostGauge   prometheus.Gauge
)

// Init registers metrics on the default Prometheus registry exactly once.
func Init() {
	initOnce.Do(func() {
		scanDurationMetric = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "costwatch_scan_duration_seconds",
			Help:    "Duration of full resource scans in seconds.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		})

		scanFailuresCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "costwatch_scan_failures_total",
			Help: "Total number of scans that ended in the failed state.",
		})

		scansRejectedCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "costwatch_scans_rejected_total",
			Help: "Total number of scan triggers rejected because a scan was already running.",
		})

		resourcesScannedVec = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "costwatch_resources_scanned_total",
				Help: "Total number of priced resources discovered, by kind.",
			},
			[]string{"kind"},
		)

		priceCacheHitCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "costwatch_price_cache_hits_total",
			Help: "Total number of price resolutions served from the cache.",
		})

		priceCacheMissCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "costwatch_price_cache_misses_total",
			Help: "Total number of price resolutions that required a live lookup.",
		})

		priceFallbackCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "costwatch_price_fallbacks_total",
			Help: "Total number of price resolutions served from the static fallback table.",
		})

		totalHourlyCostGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "costwatch_total_hourly_cost_usd",
			Help: "Total hourly cost of the latest snapshot in USD.",
		})

		totalDailyCostGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "costwatch_total_daily_cost_usd",
			Help: "Total daily cost of the latest snapshot in USD.",
		})

		prometheus.MustRegister(
			scanDurationMetric,
			scanFailuresCounter,
			scansRejectedCounter,
			resourcesScannedVec,
			priceCacheHitCounter,
			priceCacheMissCounter,
			priceFallbackCounter,
			totalHourlyCostGauge,
			totalDailyCostGauge,
		)

		// Pre-seed the per-kind counters so every series is visible at
		// /metrics before the first scan.
		for _, k := range domain.AllKinds() {
			resourcesScannedVec.WithLabelValues(string(k)).Add(0)
		}
	})
}

func ObserveScanDuration(d time.Duration) {
	if scanDurationMetric != nil {
		scanDurationMetric.Observe(d.Seconds())
	}
}

func ScanFailed() {
	if scanFailuresCounter != nil {
		scanFailuresCounter.Inc()
	}
}

func ScanRejected() {
	if scansRejectedCounter != nil {
		scansRejectedCounter.Inc()
	}
}

func ResourceScanned(kind domain.Kind) {
	if resourcesScannedVec != nil {
		resourcesScannedVec.WithLabelValues(string(kind)).Inc()
	}
}

func PriceCacheHit() {
	if priceCacheHitCounter != nil {
		priceCacheHitCounter.Inc()
	}
}

func PriceCacheMiss() {
	if priceCacheMissCounter != nil {
		priceCacheMissCounter.Inc()
	}
}

func PriceFallback() {
	if priceFallbackCounter != nil {
		priceFallbackCounter.Inc()
	}
}

func SetSnapshotTotals(hourly, daily float64) {
	if totalHourlyCostGauge != nil {
		totalHourlyCostGauge.Set(hourly)
		totalDailyCostGauge.Set(daily)
	}
}
