package catalog

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/value"
)

var (
	ErrInvalidOperation  = errors.New("operation name and function must be set")
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrDependencyCycle   = errors.New("dependency creates a cycle")
	ErrIncompatibleChain = errors.New("incompatible operation chain")
)

// ChainError reports the first operation of a chain that cannot accept the
// output of the operation before it.
type ChainError struct {
	Name    string
	Accepts []value.Kind
	Index   int
	Got     value.Kind
}

func (e *ChainError) Error() string {
	accepts := make([]string, len(e.Accepts))
	for i, k := range e.Accepts {
		accepts[i] = k.String()
	}

	return fmt.Sprintf("%s: operation %d %q accepts %s, got %s",
		ErrIncompatibleChain, e.Index+1, e.Name, strings.Join(accepts, "|"), e.Got)
}

func (e *ChainError) Unwrap() error {
	return ErrIncompatibleChain
}

// OrderViolation reports an operation listed before one of its prerequisites,
// or without it.
type OrderViolation struct {
	Name         string
	Prerequisite string
	Index        int
}

func (v OrderViolation) String() string {
	return fmt.Sprintf("%s (position %d) requires %s earlier in the sequence", v.Name, v.Index+1, v.Prerequisite)
}
