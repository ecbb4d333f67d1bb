package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ludeme",
		Name:      "moves_total",
		Help:      "Moves applied by the playout runner.",
	}, []string{"game"})

	trialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ludeme",
		Name:      "trials_total",
		Help:      "Completed trials by outcome.",
	}, []string{"game", "outcome"})

	legalMoves = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ludeme",
		Name:      "legal_moves",
		Help:      "Number of legal moves offered per turn.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"game"})

	trialLength = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ludeme",
		Name:      "trial_moves",
		Help:      "Moves per trial.",
		Buckets:   prometheus.ExponentialBuckets(4, 2, 10),
	}, []string{"game"})
)

// outcome labels a trial: "p1", "p2", ... for a winner, "draw" or "unfinished".
func outcome(m TrialMetric) string {
	switch {
	case !m.Over:
		return "unfinished"
	case m.Winner == 0:
		return "draw"
	default:
		return "p" + strconv.Itoa(m.Winner)
	}
}
