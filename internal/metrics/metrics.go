// Package metrics exposes the Prometheus instrumentation for the ingestion
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trail_notifications_received_total",
		Help: "Total number of log delivery notifications received from the queue.",
	})

	NotificationsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trail_notifications_rejected_total",
		Help: "Total number of notifications that could not be parsed.",
	})

	LogFilesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trail_log_files_processed_total",
		Help: "Total number of log files processed, labelled by outcome.",
	}, []string{"outcome"})

	EventsDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trail_events_decoded_total",
		Help: "Total number of audit events decoded.",
	})

	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trail_events_emitted_total",
		Help: "Total number of events handed to sinks, labelled by sink and status.",
	}, []string{"sink", "status"})

	LogFileDecodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trail_log_file_decode_duration_seconds",
		Help:    "Time spent fetching and decoding one log file.",
		Buckets: prometheus.DefBuckets,
	})
)
