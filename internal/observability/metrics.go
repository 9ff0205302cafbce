package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tavern_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tavern_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsPublished counts posts created by category.
	PostsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tavern_posts_published_total",
		Help: "Total number of posts published by category",
	}, []string{"category"})

	// VotesCast counts vote requests by resulting direction.
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tavern_votes_cast_total",
		Help: "Total number of votes cast by resulting direction",
	}, []string{"direction"})

	// RepliesPosted counts replies created.
	RepliesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tavern_replies_posted_total",
		Help: "Total number of replies posted",
	})

	// FeedServed counts feed page loads by filter kind.
	FeedServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tavern_feed_served_total",
		Help: "Total number of feed pages served by filter kind",
	}, []string{"filter"})

	// MediaUploads counts media uploads by content type family.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tavern_media_uploads_total",
		Help: "Total number of media uploads by kind",
	}, []string{"kind"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tavern_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tavern_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to slow clients.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tavern_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
