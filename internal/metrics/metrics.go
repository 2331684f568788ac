// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BuildRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_arsenal_build_runs_total",
			Help: "Pipeline runs by kind (build, refresh) and result (ok, error).",
		},
		[]string{"kind", "result"},
	)
	BuildDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pitch_arsenal_build_duration_seconds",
			Help: "Wall time of the last pipeline run.",
		},
	)
	BuildPitchers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pitch_arsenal_build_pitchers",
			Help: "Pitchers written by the last successful build.",
		},
	)
	LastBuildTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pitch_arsenal_last_build_timestamp_seconds",
			Help: "Unix time of the last successful build.",
		},
	)
	FetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_arsenal_fetch_failures_total",
			Help: "Raw export downloads that failed, by source.",
		},
		[]string{"source"},
	)

	PlayerCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_arsenal_player_cache_total",
			Help: "Player bio lookups by cache result (hit, miss).",
		},
		[]string{"result"},
	)
	PlayerUpstream = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pitch_arsenal_player_upstream_requests_total",
			Help: "Requests to the MLB stats API by outcome (ok, not_found, error).",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(BuildRuns, BuildDuration, BuildPitchers, LastBuildTimestamp, FetchFailures)
	prometheus.MustRegister(PlayerCache, PlayerUpstream)
}
