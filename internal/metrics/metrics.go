package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lock acquisition results.
const (
	LockAcquired  = "acquired"
	LockReclaimed = "reclaimed"
	LockContended = "contended"
	LockError     = "error"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	spawns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "procguard",
			Subsystem: "process",
			Name:      "spawns_total",
			Help:      "Number of successful process spawns.",
		},
	)
	spawnFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procguard",
			Subsystem: "process",
			Name:      "spawn_failures_total",
			Help:      "Number of failed spawns by failing stage.",
		}, []string{"op"},
	)
	terminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procguard",
			Subsystem: "process",
			Name:      "terminations_total",
			Help:      "Number of termination requests by outcome.",
		}, []string{"outcome"},
	)
	terminateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "procguard",
			Subsystem: "process",
			Name:      "terminate_duration_seconds",
			Help:      "Time spent in a termination request by outcome.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"outcome"},
	)
	lockAcquisitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "procguard",
			Subsystem: "lock",
			Name:      "acquisitions_total",
			Help:      "Lock acquisition attempts by result.",
		}, []string{"result"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{spawns, spawnFailures, terminations, terminateDuration, lockAcquisitions}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// Helpers below no-op until Register has succeeded.

func IncSpawn() {
	if regOK.Load() {
		spawns.Inc()
	}
}

func IncSpawnFailure(op string) {
	if regOK.Load() {
		spawnFailures.WithLabelValues(op).Inc()
	}
}

func ObserveTermination(outcome string, seconds float64) {
	if regOK.Load() {
		terminations.WithLabelValues(outcome).Inc()
		terminateDuration.WithLabelValues(outcome).Observe(seconds)
	}
}

func IncLock(result string) {
	if regOK.Load() {
		lockAcquisitions.WithLabelValues(result).Inc()
	}
}
