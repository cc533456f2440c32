// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for habit and timer activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HabitOperations counts successful store mutations
	HabitOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_operations_total",
			Help: "Total number of successful habit store mutations",
		},
		[]string{"operation"}, // add, delete, reset_today, replace
	)

	// TimerTransitions counts timer state changes
	TimerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timer_transitions_total",
			Help: "Total number of timer transitions",
		},
		[]string{"event"}, // started, completed, failed, cancelled, rejected
	)

	// TimerActive is 1 while a countdown is running
	TimerActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "timer_active",
			Help: "Whether a countdown is currently running",
		},
	)

	// BackupBytes tracks export and import document sizes
	BackupBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backup_document_bytes",
			Help:    "Size of exported and imported backup documents",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8), // 256B to ~4MB
		},
		[]string{"direction"}, // export, import
	)

	// HTTPRequestDuration tracks API latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path"},
	)
)

// RecordHTTPRequestDuration records the latency of one request
func RecordHTTPRequestDuration(method, path string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordBackupSize records the size of a backup document
func RecordBackupSize(direction string, size int) {
	BackupBytes.WithLabelValues(direction).Observe(float64(size))
}
