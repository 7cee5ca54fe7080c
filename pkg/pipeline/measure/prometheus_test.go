package measure_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-planflow/pkg/pipeline"
	"github.com/askiada/go-planflow/pkg/pipeline/measure"
)

func TestPrometheusMeasure(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	newPipe := func() *pipeline.Pipeline[string] {
		pipe, err := pipeline.New(pipeline.WithOptions[string](measure.PrometheusMeasure(reg, "planflow")))
		require.NoError(t, err)
		require.NoError(t, pipe.AddStep("upper", func(_ context.Context, in string) (string, error) {
			return strings.ToUpper(in), nil
		}))

		return pipe
	}

	// two pipelines share the same registry
	first, second := newPipe(), newPipe()
	_, err := first.Run(context.Background(), "a")
	require.NoError(t, err)
	_, err = second.Run(context.Background(), "b")
	require.NoError(t, err)

	expected := `
# HELP planflow_step_outputs_total Number of outputs produced by each pipeline step.
# TYPE planflow_step_outputs_total counter
planflow_step_outputs_total{step="upper"} 2
# HELP planflow_runs_total Number of successful pipeline runs.
# TYPE planflow_runs_total counter
planflow_runs_total 2
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected), "planflow_step_outputs_total", "planflow_runs_total")
	assert.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "planflow_step_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
