package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campus_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campus_ws_connections",
			Help: "Current number of open notification channels",
		},
	)

	NotificationsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_notifications_delivered_total",
			Help: "Notifications queued to an open channel",
		},
		[]string{"type"},
	)

	NotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_notifications_dropped_total",
			Help: "Notifications dropped because a channel buffer was full",
		},
		[]string{"type"},
	)

	// Outbox
	OutboxPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_outbox_published_total",
			Help: "Outbox rows published, by result",
		},
		[]string{"event_type", "result"},
	)

	// Statistics cache
	StatsCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_stats_cache_requests_total",
			Help: "Statistics cache lookups, by result",
		},
		[]string{"result"},
	)
)

// RecordAPIRequest route 用 gin 的路由模板，避免 id 撑爆标签
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordOutbox(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	OutboxPublished.WithLabelValues(eventType, result).Inc()
}

func RecordCacheLookup(hit bool) {
	if hit {
		StatsCacheRequests.WithLabelValues("hit").Inc()
		return
	}
	StatsCacheRequests.WithLabelValues("miss").Inc()
}
