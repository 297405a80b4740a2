// Package metrics exposes the prometheus collectors shared by the HTTP layer and the realtime hub.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamchat_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teamchat_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "teamchat_ws_connections",
			Help: "Open realtime connections.",
		},
	)

	WSEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamchat_ws_events_total",
			Help: "Realtime events published by type.",
		},
		[]string{"type"},
	)

	UploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "teamchat_upload_bytes_total",
			Help: "Bytes accepted by the upload endpoint.",
		},
	)

	SweptUploads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "teamchat_swept_uploads_total",
			Help: "Orphaned uploads removed by the retention worker.",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)
	prometheus.MustRegister(WSConnections)
	prometheus.MustRegister(WSEvents)
	prometheus.MustRegister(UploadBytes)
	prometheus.MustRegister(SweptUploads)
}
