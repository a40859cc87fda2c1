package ofs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	integrationSteps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ofs_integration_steps_total",
		Help: "Number of RK4 steps computed across all missions.",
	})
	stagingEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ofs_staging_events_total",
		Help: "Number of stage separations spawned as independent objects.",
	})
	impacts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ofs_impacts_total",
		Help: "Number of objects frozen onto the primary body surface.",
	})
	searchCandidates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ofs_search_candidates_total",
		Help: "Number of ascent parameter candidates simulated.",
	})
	searchSatisfying = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ofs_search_satisfying_total",
		Help: "Number of ascent candidates that reached the target orbit.",
	})
)
