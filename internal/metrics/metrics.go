package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Search and download outcome counters, labeled by catalog service and a
// "success"/"error" status so per-catalog failure rates chart directly.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_searches_total",
			Help: "Total number of subtitle catalog searches.",
		},
		[]string{"service", "status"},
	)

	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_downloads_total",
			Help: "Total number of subtitle downloads.",
		},
		[]string{"service", "status"},
	)
)

// Label values for the status dimension.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func init() {
	prometheus.MustRegister(
		SearchesTotal,
		DownloadsTotal,
	)
}

// RecordSearch counts one search outcome for a service.
func RecordSearch(service string, err error) {
	SearchesTotal.WithLabelValues(service, statusOf(err)).Inc()
}

// RecordDownload counts one download outcome for a service.
func RecordDownload(service string, err error) {
	DownloadsTotal.WithLabelValues(service, statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
