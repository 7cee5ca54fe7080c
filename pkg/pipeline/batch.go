package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// RunAll runs the pipeline once per input, with at most concurrent runs at a time.
// Outputs are returned in input order. The first failure cancels the remaining runs.
// Steps inside one run stay sequential.
func (p *Pipeline[T]) RunAll(ctx context.Context, inputs []T, concurrent int) ([]T, error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if concurrent <= 0 {
		concurrent = 1
	}

	steps := p.freeze()
	outputs := make([]T, len(inputs))

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(concurrent)
	for idx, input := range inputs {
		localIdx, localInput := idx, input
		errGrp.Go(func() error {
			out, err := p.run(dCtx, steps, localInput)
			if err != nil {
				return errors.Wrapf(err, "input %d", localIdx)
			}
			outputs[localIdx] = out

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return nil, err
	}

	err = p.finishRun()
	if err != nil {
		return nil, err
	}

	return outputs, nil
}
