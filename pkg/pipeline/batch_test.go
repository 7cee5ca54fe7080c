package pipeline_test

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-planflow/pkg/pipeline"
)

func TestRunAllKeepsInputOrder(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		concurrent int
	}{
		"sequential":     {concurrent: 1},
		"sequential v2":  {concurrent: 0},
		"concurrent 2":   {concurrent: 2},
		"concurrent 100": {concurrent: 100},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New[int]()
			require.NoError(t, err)
			require.NoError(t, pipe.AddStep("double", func(_ context.Context, in int) (int, error) {
				time.Sleep(time.Duration(10-in) * time.Millisecond)
				return in * 2, nil
			}))

			inputs := make([]int, 10)
			want := make([]int, 10)
			for i := range inputs {
				inputs[i] = i
				want[i] = i * 2
			}

			got, err := pipe.RunAll(context.Background(), inputs, tc.concurrent)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRunAllStopsOnFirstError(t *testing.T) {
	t.Parallel()

	var started atomic.Int64
	pipe, err := pipeline.New[int]()
	require.NoError(t, err)
	require.NoError(t, pipe.AddStep("check", func(ctx context.Context, in int) (int, error) {
		started.Add(1)
		if in == 3 {
			return 0, assert.AnError
		}
		return in, nil
	}))

	inputs := make([]int, 50)
	for i := range inputs {
		inputs[i] = i
	}

	got, err := pipe.RunAll(context.Background(), inputs, 1)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, assert.AnError))
	assert.Contains(t, err.Error(), "input 3")
	name, ok := pipeline.FailedStep(err)
	assert.True(t, ok)
	assert.Equal(t, "check", name)
	assert.Less(t, started.Load(), int64(50))
}

func TestRunAllStepPanic(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New[int]()
	require.NoError(t, err)
	require.NoError(t, pipe.AddStep("divide", func(_ context.Context, in int) (int, error) {
		return 10 / in, nil
	}))

	_, err = pipe.RunAll(context.Background(), []int{1, 0, 2}, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrStepPanicked))
	name, ok := pipeline.FailedStep(err)
	assert.True(t, ok)
	assert.Equal(t, "divide", name)
}

func TestRunAllEmptyPipeline(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New[string]()
	require.NoError(t, err)

	inputs := []string{"a", "b", strconv.Itoa(3)}
	got, err := pipe.RunAll(context.Background(), inputs, 2)
	require.NoError(t, err)
	assert.Equal(t, inputs, got)
}
