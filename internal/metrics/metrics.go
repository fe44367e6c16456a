package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "smartmap_"

// Lookup outcomes.
const (
	OutcomeFound     = "found"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
	OutcomeDiscarded = "discarded"
)

var (
	registerOnce sync.Once

	rankLookups       *prometheus.CounterVec
	rankLookupLatency prometheus.Histogram
	storeCommits      *prometheus.CounterVec
	storeRecords      prometheus.Gauge
	httpRequests      *prometheus.CounterVec
	httpLatency       *prometheus.HistogramVec
	activeSessions    prometheus.Gauge
	cacheLookups      *prometheus.CounterVec
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		rankLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rank_lookups_total",
				Help: "Waiting-list rank lookups by outcome",
			},
			[]string{"outcome"},
		)
		rankLookupLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "rank_lookup_seconds",
				Help:    "Latency of calls to the rank endpoint",
				Buckets: prometheus.DefBuckets,
			},
		)
		storeCommits = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_commits_total",
				Help: "Record store commits by result",
			},
			[]string{"result"},
		)
		storeRecords = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "store_records",
				Help: "Number of facility records currently committed",
			},
		)
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"route", "method", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		)
		activeSessions = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "active_sessions",
				Help: "Browser sessions currently held",
			},
		)

		cacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "response_cache_lookups_total",
				Help: "Response cache lookups by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			rankLookups, rankLookupLatency,
			storeCommits, storeRecords,
			httpRequests, httpLatency,
			activeSessions, cacheLookups,
		)
	})
}

// ObserveRankLookup records one lookup outcome.
func ObserveRankLookup(outcome string, d time.Duration) {
	if rankLookups == nil {
		return
	}
	rankLookups.WithLabelValues(outcome).Inc()
	if outcome != OutcomeDiscarded {
		rankLookupLatency.Observe(d.Seconds())
	}
}

// ObserveStoreCommit records a commit attempt and the resulting record count.
func ObserveStoreCommit(err error, records int) {
	if storeCommits == nil {
		return
	}
	if err != nil {
		storeCommits.WithLabelValues("error").Inc()
		return
	}
	storeCommits.WithLabelValues("success").Inc()
	storeRecords.Set(float64(records))
}

// SetStoreRecords sets the committed record gauge.
func SetStoreRecords(n int) {
	if storeRecords == nil {
		return
	}
	storeRecords.Set(float64(n))
}

// ObserveHTTP records one served request.
func ObserveHTTP(route, method, status string, d time.Duration) {
	if httpRequests == nil {
		return
	}
	httpRequests.WithLabelValues(route, method, status).Inc()
	httpLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

// SetActiveSessions sets the live session gauge.
func SetActiveSessions(n int) {
	if activeSessions == nil {
		return
	}
	activeSessions.Set(float64(n))
}

// ObserveCache counts a response cache hit or miss.
func ObserveCache(hit bool) {
	if cacheLookups == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}
