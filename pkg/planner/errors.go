package planner

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/catalog"
)

var (
	ErrPlanFormat         = errors.New("plan response has no <TOOLS> section")
	ErrCompletionTimeout  = errors.New("completion timed out")
	ErrDependencyOrder    = errors.New("plan does not respect operation dependencies")
	ErrCompleterMustBeSet = errors.New("completer must be set")
	ErrCatalogMustBeSet   = errors.New("catalog must be set")
	ErrHistoryMustBeSet   = errors.New("history must be set")
	ErrPlanMustBeSet      = errors.New("plan must be set")
)

// PlanFormatError is returned when the model reply lacks the delimiter pair.
type PlanFormatError struct {
	Response string
}

func (e *PlanFormatError) Error() string {
	const maxQuoted = 120
	response := e.Response
	if runes := []rune(response); len(runes) > maxQuoted {
		response = string(runes[:maxQuoted]) + "..."
	}

	return ErrPlanFormat.Error() + ": " + strconv.Quote(response)
}

func (e *PlanFormatError) Unwrap() error {
	return ErrPlanFormat
}

// CompletionError wraps a failure of the completion service.
type CompletionError struct {
	Err     error
	Timeout bool
}

func (e *CompletionError) Error() string {
	if e.Timeout {
		return ErrCompletionTimeout.Error() + ": " + e.Err.Error()
	}

	return "completion failed: " + e.Err.Error()
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCompletionTimeout) hold for timeouts.
func (e *CompletionError) Is(target error) bool {
	return e.Timeout && target == ErrCompletionTimeout
}

// DependencyOrderError lists the dependencies a plan did not respect.
type DependencyOrderError struct {
	Violations []catalog.OrderViolation
}

func (e *DependencyOrderError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}

	return ErrDependencyOrder.Error() + ": " + strings.Join(parts, "; ")
}

func (e *DependencyOrderError) Unwrap() error {
	return ErrDependencyOrder
}

// UnknownOperationWarning records a proposed name missing from the catalog.
// It never fails a resolution.
type UnknownOperationWarning struct {
	Name  string
	Index int
}

func (w UnknownOperationWarning) String() string {
	return "unknown tool " + strconv.Quote(w.Name) + " at position " + strconv.Itoa(w.Index+1)
}
