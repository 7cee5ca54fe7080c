package catalog

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/value"
)

// CheckOrder returns, for every name of the sequence, each direct prerequisite
// that does not appear before it. Names unknown to the catalog are ignored.
func (c *Catalog) CheckOrder(names []string) []OrderViolation {
	var violations []OrderViolation

	seen := make(map[string]struct{}, len(names))
	for idx, name := range names {
		for _, prerequisite := range c.Dependencies(name) {
			if _, ok := seen[prerequisite]; !ok {
				violations = append(violations, OrderViolation{
					Name:         name,
					Prerequisite: prerequisite,
					Index:        idx,
				})
			}
		}
		seen[name] = struct{}{}
	}

	return violations
}

// CheckChain verifies that every operation of the sequence accepts the kind
// produced by the one before it, starting from input. It returns a *ChainError
// for the first incompatible operation.
func (c *Catalog) CheckChain(names []string, input value.Kind) error {
	current := input
	for idx, name := range names {
		op, ok := c.Lookup(name)
		if !ok {
			return errors.Wrap(ErrUnknownOperation, name)
		}

		if current != value.KindInvalid && len(op.Accepts) > 0 && !value.Accepts(op.Accepts, current) {
			return &ChainError{
				Name:    name,
				Accepts: op.Accepts,
				Index:   idx,
				Got:     current,
			}
		}
		current = op.Produces
	}

	return nil
}
