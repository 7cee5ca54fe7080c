package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/internal/store"
	"github.com/askiada/go-planflow/pkg/value"
)

// Func is the transformation carried by an operation.
type Func func(ctx context.Context, in value.Value) (value.Value, error)

// Operation is a named entry of the catalog.
type Operation struct {
	Fn          Func
	Name        string
	Description string
	// Accepts lists the kinds the operation can consume. Empty means any.
	Accepts []value.Kind
	// Produces is the kind of the output. KindInvalid means unknown.
	Produces value.Kind
}

// Catalog maps operation names to operations.
// It is safe for concurrent reads once populated.
type Catalog struct {
	mu    sync.RWMutex
	ops   map[string]Operation
	deps  graph.Graph[string, string]
	store store.DependencyStore[string, string]
}

// New creates an empty catalog.
func New() *Catalog {
	s := store.NewMemoryStore[string, string]()

	return &Catalog{
		ops:   make(map[string]Operation),
		store: s,
		deps:  graph.NewWithStore(graph.StringHash, s, graph.Directed(), graph.PreventCycles()),
	}
}

// Register adds op, replacing any operation with the same name.
// Dependencies recorded for the name are kept.
func (c *Catalog) Register(op Operation) error {
	if op.Name == "" || op.Fn == nil {
		return ErrInvalidOperation
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ops[op.Name]; !ok {
		err := c.deps.AddVertex(op.Name)
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return errors.Wrapf(err, "unable to add %s to dependency graph", op.Name)
		}
	}
	c.ops[op.Name] = op

	return nil
}

// Lookup returns the operation registered under name.
func (c *Catalog) Lookup(name string) (Operation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	op, ok := c.ops[name]

	return op, ok
}

// Names returns the registered names in ascending order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.ops))
	for name := range c.ops {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Operations returns the registered operations ordered by name.
func (c *Catalog) Operations() []Operation {
	names := c.Names()

	c.mu.RLock()
	defer c.mu.RUnlock()

	ops := make([]Operation, 0, len(names))
	for _, name := range names {
		ops = append(ops, c.ops[name])
	}

	return ops
}

// DependsOn records that name needs prerequisite to run earlier in a sequence.
func (c *Catalog) DependsOn(name, prerequisite string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range []string{name, prerequisite} {
		if _, ok := c.ops[n]; !ok {
			return errors.Wrap(ErrUnknownOperation, n)
		}
	}

	err := c.deps.AddEdge(name, prerequisite)
	switch {
	case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
		return nil
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return errors.Wrapf(ErrDependencyCycle, "%s -> %s", name, prerequisite)
	default:
		return errors.Wrapf(err, "unable to add dependency %s -> %s", name, prerequisite)
	}
}

// Dependencies returns the direct prerequisites of name in ascending order.
func (c *Catalog) Dependencies(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.ops[name]; !ok {
		return nil
	}
	deps := c.store.Successors(name)
	sort.Strings(deps)

	return deps
}

// Dependents returns the operations that directly require name, in ascending order.
func (c *Catalog) Dependents(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.ops[name]; !ok {
		return nil
	}
	deps := c.store.Predecessors(name)
	sort.Strings(deps)

	return deps
}
