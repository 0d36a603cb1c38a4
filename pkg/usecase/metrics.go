package usecase

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
)

var (
	permissionDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskhub_permission_decisions_total",
		Help: "Total permission decisions by rule and outcome",
	}, []string{"rule", "allowed"})

	voteConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riskhub_vote_conflicts_total",
		Help: "Total conditional vote writes rejected because of a stale revision",
	})

	voteAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "riskhub_vote_attempts",
		Help:    "Read-modify-write attempts needed per successful vote",
		Buckets: []float64{1, 2, 3, 4, 5, 8},
	})

	voteOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskhub_vote_outcomes_total",
		Help: "Total vote operations by resulting error kind (ok on success)",
	}, []string{"kind"})
)

func observeDecision(d model.Decision) {
	permissionDecisions.WithLabelValues(d.Rule.String(), strconv.FormatBool(d.Allowed)).Inc()
}

func observeVoteOutcome(err error) {
	kind := "ok"
	if err != nil {
		kind = string(model.KindOf(err))
	}
	voteOutcomes.WithLabelValues(kind).Inc()
}
