package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-planflow/pkg/pipeline"
)

func upper(_ context.Context, in string) (string, error) {
	return strings.ToUpper(in), nil
}

func suffix(s string) pipeline.StepFunc[string] {
	return func(_ context.Context, in string) (string, error) {
		return in + s, nil
	}
}

func newStringPipeline(t *testing.T, steps map[string]pipeline.StepFunc[string], order []string, opts ...pipeline.Option[string]) *pipeline.Pipeline[string] {
	t.Helper()

	pipe, err := pipeline.New(opts...)
	require.NoError(t, err)
	for _, name := range order {
		require.NoError(t, pipe.AddStep(name, steps[name]))
	}

	return pipe
}
