package pipeline

import (
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrStepMustBeSet     = errors.New("step name and function must be set")
	ErrPipelineFrozen    = errors.New("pipeline already started, steps can no longer be added")
	ErrStepPanicked      = errors.New("step panicked")
)

// StepError reports the step that stopped a run.
type StepError struct {
	Err   error
	Name  string
	Index int
}

func newStepError(index int, name string, err error) *StepError {
	return &StepError{
		Err:   err,
		Name:  name,
		Index: index,
	}
}

func (e *StepError) Error() string {
	return "step " + strconv.Itoa(e.Index+1) + " " + strconv.Quote(e.Name) + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause from github.com/pkg/errors reach the underlying error.
func (e *StepError) Cause() error {
	return e.Err
}

// FailedStep returns the name of the step that failed, if err comes from a run.
func FailedStep(err error) (string, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Name, true
	}

	return "", false
}
