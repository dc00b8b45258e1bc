package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "github.com/l31-dev/Autha/pkg/domain-errors"
)

var (
	profileReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autha_profile_reads_total",
		Help: "Profile reads by resolution source",
	}, []string{"source"}) // cache, user, bot, none

	profileReadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "autha_profile_read_duration_seconds",
		Help:    "Latency of profile reads",
		Buckets: prometheus.DefBuckets,
	})

	profilePatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autha_profile_patches_total",
		Help: "Profile patches by outcome",
	}, []string{"outcome"})
)

// patchOutcome maps a patch result to its metric label.
func patchOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return "invalid_" + dErrors.FieldOf(err)
	case dErrors.HasCode(err, dErrors.CodeSuspended):
		return "suspended"
	case dErrors.HasCode(err, dErrors.CodeNotImplemented):
		return "not_implemented"
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
