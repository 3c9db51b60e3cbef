// Package telemetry holds the prometheus instruments of the service.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "businesscase_generations_total",
			Help: "Generation requests by outcome",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "businesscase_generation_duration_seconds",
			Help:    "Time spent rendering and writing the artifacts of one generation",
			Buckets: prometheus.DefBuckets,
		},
	)

	ArtifactBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "businesscase_artifact_bytes_total",
			Help: "Bytes written per artifact kind",
		},
		[]string{"kind"},
	)

	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "businesscase_imports_total",
			Help: "Uploaded documents and JSON files by source and status",
		},
		[]string{"source", "status"},
	)

	IdleShutdowns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "businesscase_idle_shutdowns_total",
			Help: "Times the server stopped because no request arrived within the idle timeout",
		},
	)
)

// Outcome labels for GenerationsTotal.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)
