package advisory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_generations_total",
		Help: "The number of visualization generations started.",
	})

	generationsSuperseded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_generations_superseded_total",
		Help: "The number of generations abandoned because a newer configuration arrived.",
	})

	classifierEvals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_classifier_evals_total",
		Help: "The number of classifier evaluations across all generations.",
	})
)
