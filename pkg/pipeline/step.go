package pipeline

import (
	"context"

	"github.com/askiada/go-planflow/pkg/pipeline/model"
)

// StepFunc transforms the output of the previous step.
type StepFunc[T any] func(ctx context.Context, input T) (T, error)

// Step is a named function in a pipeline.
type Step[T any] struct {
	Fn      StepFunc[T]
	details *model.StepInfo
}

// Name returns the name the step was added with.
func (s *Step[T]) Name() string {
	return s.details.Name
}

// AddStep appends a step at the end of the pipeline.
func (p *Pipeline[T]) AddStep(name string, stepFn StepFunc[T]) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if name == "" || stepFn == nil {
		return ErrStepMustBeSet
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frozen {
		return ErrPipelineFrozen
	}

	parent := model.StartStep
	if len(p.steps) > 0 {
		parent = p.steps[len(p.steps)-1].details
	}
	step := &Step[T]{
		Fn: stepFn,
		details: &model.StepInfo{
			Type:  model.NormalStepType,
			Name:  name,
			Index: len(p.steps),
		},
	}
	err := p.prepareStep(parent, step.details)
	if err != nil {
		return err
	}
	p.steps = append(p.steps, step)

	return nil
}
