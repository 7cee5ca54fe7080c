package drawer

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/pipeline/measure"
	"github.com/askiada/go-planflow/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m measure.Measure

	mu        sync.Mutex
	lastStep  *model.StepInfo
	closed    bool
	startTime time.Time
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.StartStep.Key())
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}
	err = pd.AddStep(model.EndStep.Key())
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}
	pd.lastStep = model.StartStep

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	err := pd.AddStep(step.Key())
	if err != nil {
		return err
	}
	err = pd.AddLink(parentStep.Key(), step.Key())
	if err != nil {
		return err
	}
	pd.mu.Lock()
	pd.lastStep = step
	pd.mu.Unlock()

	return nil
}

func (pd *pipelineDrawer) OnStepOutput(_, _ *model.StepInfo, _ string, computationDuration time.Duration) error {
	pd.mu.Lock()
	defer pd.mu.Unlock()
	if pd.startTime.IsZero() {
		pd.startTime = time.Now().Add(-computationDuration)
	}

	return nil
}

func (pd *pipelineDrawer) Finish() error {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	// the last step is only known once the pipeline has run
	if !pd.closed {
		err := pd.AddLink(pd.lastStep.Key(), model.EndStep.Key())
		if err != nil {
			return errors.Wrap(err, "unable to link last step to end")
		}
		pd.closed = true
	}

	if pd.m != nil && !pd.startTime.IsZero() {
		err := pd.SetTotalTime(model.EndStep.Key(), pd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
	}
	pd.startTime = time.Time{}

	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the pipeline every time a run finishes.
// measure may be nil; when set, step and link durations are added to the drawing.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
