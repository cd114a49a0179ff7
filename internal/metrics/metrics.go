// Package metrics declares the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkup_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkup_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "linkup_live_sessions_active",
			Help: "Current number of open live websocket sessions",
		},
	)

	RealtimeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkup_realtime_events_total",
			Help: "Realtime change events published, by table",
		},
		[]string{"table"},
	)

	RealtimeRefetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkup_realtime_refetches_total",
			Help: "Full refetches triggered by realtime events, by table",
		},
		[]string{"table"},
	)

	EnrichDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "linkup_feed_enrich_duration_seconds",
			Help:    "Time spent enriching a page of posts",
			Buckets: prometheus.DefBuckets,
		},
	)

	DroppedFrames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "linkup_live_dropped_frames_total",
			Help: "Frames dropped because a live session's send queue was full",
		},
	)
)
