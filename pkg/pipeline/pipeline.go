package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/pipeline/model"
)

// Pipeline is a pipeline of steps.
type Pipeline[T any] struct {
	mu            sync.RWMutex
	steps         []*Step[T]
	opts          []model.PipelineOption
	logger        *slog.Logger
	format        func(T) string
	previewLength int
	frozen        bool
}

// New creates a new pipeline without steps.
func New[T any](opts ...Option[T]) (*Pipeline[T], error) {
	pipe := &Pipeline[T]{
		logger:        slog.Default(),
		format:        func(v T) string { return fmt.Sprint(v) },
		previewLength: defaultPreviewLength,
	}
	for _, opt := range opts {
		opt(pipe)
	}

	for _, opt := range pipe.opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Steps returns the step names in execution order.
func (p *Pipeline[T]) Steps() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}

	return names
}

// Len returns the number of steps.
func (p *Pipeline[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.steps)
}

// Run threads input through every step and returns the output of the last one.
// It stops on the first failing step and returns a *StepError.
func (p *Pipeline[T]) Run(ctx context.Context, input T) (T, error) {
	var zero T
	if p == nil {
		return zero, ErrPipelineMustBeSet
	}

	out, err := p.run(ctx, p.freeze(), input)
	if err != nil {
		return zero, err
	}

	err = p.finishRun()
	if err != nil {
		return zero, err
	}

	return out, nil
}

// freeze stops the pipeline from growing and returns a snapshot of its steps.
func (p *Pipeline[T]) freeze() []*Step[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frozen = true

	return p.steps
}

func (p *Pipeline[T]) run(ctx context.Context, steps []*Step[T], input T) (T, error) {
	var zero T

	current := input
	parent := model.StartStep
	for _, step := range steps {
		details := step.details
		// stop before starting a new step if the caller gave up
		if err := ctx.Err(); err != nil {
			return zero, newStepError(details.Index, details.Name, err)
		}

		startFn := time.Now()
		out, err := callStep(ctx, step.Fn, current)
		if err != nil {
			return zero, newStepError(details.Index, details.Name, err)
		}
		endFn := time.Since(startFn)

		preview := p.preview(out)
		p.logger.Info("step output",
			"step", details.Name,
			"index", details.Index,
			"output", preview,
			"duration", endFn)

		for _, opt := range p.opts {
			err := opt.OnStepOutput(parent, details, preview, endFn)
			if err != nil {
				return zero, errors.Wrap(err, "unable to run step output option")
			}
		}

		current = out
		parent = details
	}

	return current, nil
}

// callStep turns a panic of fn into an error wrapping ErrStepPanicked.
func callStep[T any](ctx context.Context, fn StepFunc[T], input T) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, errors.Wrapf(ErrStepPanicked, "%v", r)
		}
	}()

	return fn(ctx, input)
}

func (p *Pipeline[T]) prepareStep(parent, step *model.StepInfo) error {
	for _, opt := range p.opts {
		err := opt.PrepareStep(parent, step)
		if err != nil {
			return errors.Wrap(err, "unable to prepare step")
		}
	}

	return nil
}

func (p *Pipeline[T]) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}

func (p *Pipeline[T]) preview(v T) string {
	s := p.format(v)
	if p.previewLength <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= p.previewLength {
		return s
	}

	return string(runes[:p.previewLength]) + "..."
}
