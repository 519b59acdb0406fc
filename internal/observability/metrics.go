package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsCreated counts successfully stored posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "network_posts_created_total",
		Help: "Total number of posts created",
	})

	// LikeToggles counts like toggles by resulting state ("liked" or "unliked").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "network_like_toggles_total",
		Help: "Total number of like toggles by resulting state",
	}, []string{"state"})

	// FollowChanges counts follow graph mutations by action ("follow" or "unfollow").
	FollowChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "network_follow_changes_total",
		Help: "Total number of follow edges created or removed",
	}, []string{"action"})

	// FeedPagesServed counts feed pages rendered by feed kind.
	FeedPagesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "network_feed_pages_served_total",
		Help: "Total number of feed pages served by kind",
	}, []string{"kind"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
