package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lint metrics
	lintRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typeterms_lint_runs_total",
		Help: "Lint runs by outcome",
	}, []string{"outcome"}) // outcome=clean|findings|error

	lintDiagnostics = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "typeterms_lint_diagnostics",
		Help: "Diagnostics in the last lint run by severity",
	}, []string{"severity"})

	// Glossary metrics
	glossaryEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "typeterms_glossary_entries",
		Help: "Number of loaded glossary entries",
	})

	// HTTP metrics
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "typeterms_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)
