package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ChecksTotal counts plagiarism checks by kind (local/web) and status
	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribeguard_checks_total",
			Help: "Total number of plagiarism checks",
		},
		[]string{"kind", "status"},
	)

	// CheckDuration measures end-to-end check pipeline duration
	CheckDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scribeguard_check_duration_seconds",
			Help:    "Plagiarism check duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"kind"},
	)

	// SearchRequests counts web search calls by provider and outcome
	SearchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribeguard_search_requests_total",
			Help: "Total number of web search requests",
		},
		[]string{"provider", "outcome"},
	)

	// PageFetches counts page fetches by outcome (ok/unavailable)
	PageFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribeguard_page_fetches_total",
			Help: "Total number of web page fetches",
		},
		[]string{"outcome"},
	)

	// ScorerSkips counts comparisons where a scorer was unavailable
	ScorerSkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scribeguard_scorer_skips_total",
			Help: "Total number of comparisons with an unavailable scorer",
		},
		[]string{"method"},
	)
)

// InitPrometheus registers all metrics with the default registry.
func InitPrometheus() {
	prometheus.MustRegister(ChecksTotal)
	prometheus.MustRegister(CheckDuration)
	prometheus.MustRegister(SearchRequests)
	prometheus.MustRegister(PageFetches)
	prometheus.MustRegister(ScorerSkips)
}
