package measure

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/askiada/go-planflow/pkg/pipeline/model"
)

type prometheusMeasure struct {
	registerer prometheus.Registerer
	durations  *prometheus.HistogramVec
	outputs    *prometheus.CounterVec
	runs       prometheus.Counter
}

func (pm *prometheusMeasure) New() error {
	var err error
	pm.durations, err = register(pm.registerer, pm.durations)
	if err != nil {
		return err
	}
	pm.outputs, err = register(pm.registerer, pm.outputs)
	if err != nil {
		return err
	}
	pm.runs, err = register(pm.registerer, pm.runs)

	return err
}

// register returns the collector already registered under the same descriptor
// so several pipelines can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, errors.Wrap(err, "unable to register collector")
}

func (pm *prometheusMeasure) PrepareStep(_, _ *model.StepInfo) error {
	return nil
}

func (pm *prometheusMeasure) OnStepOutput(_, step *model.StepInfo, _ string, computationDuration time.Duration) error {
	pm.durations.WithLabelValues(step.Name).Observe(computationDuration.Seconds())
	pm.outputs.WithLabelValues(step.Name).Inc()

	return nil
}

func (pm *prometheusMeasure) Finish() error {
	pm.runs.Inc()

	return nil
}

// PrometheusMeasure exports step durations and output counts to reg.
func PrometheusMeasure(reg prometheus.Registerer, namespace string) model.PipelineOption {
	return &prometheusMeasure{
		registerer: reg,
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Time spent in each pipeline step.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"step"}),
		outputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_outputs_total",
			Help:      "Number of outputs produced by each pipeline step.",
		}, []string{"step"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of successful pipeline runs.",
		}),
	}
}
