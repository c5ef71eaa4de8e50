package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/techeer-11-team-k/aptmatch/internal/match"
)

var (
	matchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aptmatch_matched_total",
		Help: "Matched transaction records by matching method.",
	}, []string{"method"})

	unmatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aptmatch_unmatched_total",
		Help: "Unmatched transaction records by terminal outcome.",
	}, []string{"outcome"})
)

// ObserveResult records a match result in the Prometheus counters. Safe for
// concurrent use; suitable as a batch orchestrator observer.
func ObserveResult(res match.Result) {
	if res.Matched {
		matchedTotal.WithLabelValues(res.Method).Inc()
	} else {
		unmatchedTotal.WithLabelValues(res.Outcome).Inc()
	}
}
