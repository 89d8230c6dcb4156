// Package metrics exposes Prometheus instruments for the HTTP API and the batch jobs.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by route template, method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitness_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// JobItemsTotal counts processed batch items by job and outcome (success, skipped, error).
	JobItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_job_items_total",
			Help: "Total number of batch job items by outcome",
		},
		[]string{"job", "outcome"},
	)

	// ExternalCallsTotal counts calls to the AI and video APIs.
	ExternalCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_external_calls_total",
			Help: "Total number of external API calls",
		},
		[]string{"api", "result"},
	)

	// YouTubeQuotaUsed mirrors the quota units spent today by the video importer.
	YouTubeQuotaUsed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitness_youtube_quota_used",
			Help: "YouTube Data API quota units used today",
		},
	)

	// SitemapWritesTotal counts sitemap synchronizations by result (written, unchanged, failed).
	SitemapWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_sitemap_writes_total",
			Help: "Total number of sitemap synchronizations",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordJobItem records the outcome of one batch job item.
func RecordJobItem(job, outcome string) {
	JobItemsTotal.WithLabelValues(job, outcome).Inc()
}

// RecordExternalCall records one call to an external API.
func RecordExternalCall(api string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ExternalCallsTotal.WithLabelValues(api, result).Inc()
}
