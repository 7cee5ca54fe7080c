package measure

import (
	"sync"
	"time"

	"github.com/askiada/go-planflow/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure

	mu sync.Mutex
	// startTime is when the first step of the current run, or batch of runs, began.
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.StartStep.Key())
	pm.AddMetric(model.EndStep.Key())

	return nil
}

func (pm *pipelineMeasure) PrepareStep(_, step *model.StepInfo) error {
	pm.AddMetric(step.Key())

	return nil
}

func (pm *pipelineMeasure) OnStepOutput(parentStep, step *model.StepInfo, _ string, computationDuration time.Duration) error {
	mt := pm.GetMetric(step.Key())
	if mt == nil {
		mt = pm.AddMetric(step.Key())
	}
	pm.mu.Lock()
	if pm.startTime.IsZero() {
		pm.startTime = time.Now().Add(-computationDuration)
	}
	pm.mu.Unlock()

	mt.AddDuration(computationDuration)
	mt.AddTransportDuration(parentStep.Key(), computationDuration)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	var total time.Duration
	if !pm.startTime.IsZero() {
		total = time.Since(pm.startTime)
	}
	pm.GetMetric(model.EndStep.Key()).SetTotalDuration(total)
	pm.startTime = time.Time{}

	return nil
}

// PipelineMeasure records step durations into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
