package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	UploadedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_uploaded_bytes_total",
		Help: "Bytes committed to document storage by area (dossier, receipts, suivi).",
	}, []string{"area"})

	ArchiveDownloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "archive_downloads_total",
		Help: "Dossier zip downloads by result (ok, not_found, aborted).",
	}, []string{"result"})
)
