package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// UpstreamRequests counts calls to the collection API by method and status.
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_upstream_requests_total",
			Help: "Total number of upstream collection API requests",
		},
		[]string{"method", "status"},
	)

	// PagesFetched counts collection pages drained per collection.
	PagesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_pages_fetched_total",
			Help: "Total number of collection pages fetched",
		},
		[]string{"collection"},
	)

	// InvitesDispatched counts invite dispatch outcomes.
	InvitesDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_invites_dispatched_total",
			Help: "Total number of invite dispatch jobs by outcome",
		},
		[]string{"status"},
	)

	// SnapshotRefreshDuration measures assessment snapshot rebuild time.
	SnapshotRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "hermes_snapshot_refresh_duration_seconds",
			Help: "Assessment snapshot rebuild duration in seconds",
		},
	)
)

// InitPrometheus registers all collectors.
func InitPrometheus() {
	prometheus.MustRegister(UpstreamRequests)
	prometheus.MustRegister(PagesFetched)
	prometheus.MustRegister(InvitesDispatched)
	prometheus.MustRegister(SnapshotRefreshDuration)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
