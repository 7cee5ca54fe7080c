package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-planflow/pkg/pipeline"
	"github.com/askiada/go-planflow/pkg/pipeline/model"
)

type recordingOption struct {
	mu       sync.Mutex
	events   []string
	newErr   error
	stepErr  error
	outErr   error
	finished int
}

func (r *recordingOption) New() error {
	r.record("new")
	return r.newErr
}

func (r *recordingOption) PrepareStep(parentStep, step *model.StepInfo) error {
	r.record("prepare " + parentStep.Key() + " -> " + step.Key())
	return r.stepErr
}

func (r *recordingOption) OnStepOutput(parentStep, step *model.StepInfo, preview string, _ time.Duration) error {
	r.record("output " + parentStep.Key() + " -> " + step.Key() + " = " + preview)
	return r.outErr
}

func (r *recordingOption) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++
	return nil
}

func (r *recordingOption) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func TestPipelineOptionLifecycle(t *testing.T) {
	t.Parallel()

	opt := &recordingOption{}
	pipe := newStringPipeline(t, map[string]pipeline.StepFunc[string]{
		"a": suffix("-a"),
		"b": upper,
	}, []string{"a", "b"}, pipeline.WithOptions[string](opt))

	_, err := pipe.Run(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"new",
		"prepare start -> 1. a",
		"prepare 1. a -> 2. b",
		"output start -> 1. a = x-a",
		"output 1. a -> 2. b = X-A",
	}, opt.events)
	assert.Equal(t, 1, opt.finished)
}

func TestPipelineOptionErrors(t *testing.T) {
	t.Parallel()

	_, err := pipeline.New(pipeline.WithOptions[string](&recordingOption{newErr: assert.AnError}))
	assert.ErrorIs(t, err, assert.AnError)

	pipe, err := pipeline.New(pipeline.WithOptions[string](&recordingOption{stepErr: assert.AnError}))
	require.NoError(t, err)
	assert.ErrorIs(t, pipe.AddStep("a", upper), assert.AnError)
	assert.Zero(t, pipe.Len())

	opt := &recordingOption{outErr: assert.AnError}
	pipe = newStringPipeline(t, map[string]pipeline.StepFunc[string]{"a": upper}, []string{"a"}, pipeline.WithOptions[string](opt))
	_, err = pipe.Run(context.Background(), "x")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, opt.finished)
}
