package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/catalog"
	"github.com/askiada/go-planflow/pkg/llm"
	"github.com/askiada/go-planflow/pkg/pipeline"
	"github.com/askiada/go-planflow/pkg/value"
)

const DefaultTimeout = 60 * time.Second

// Plan is the parsed answer of the completion service.
type Plan struct {
	ID          uuid.UUID
	Goal        string
	RawResponse string
	// ToolNames is the proposed sequence, unknown names included.
	ToolNames []string
}

// Resolution is a plan turned into a pipeline.
type Resolution struct {
	Plan     *Plan
	Pipeline *pipeline.Pipeline[value.Value]
	// Steps is the resolved sequence, unknown names removed.
	Steps           []string
	Warnings        []UnknownOperationWarning
	OrderViolations []catalog.OrderViolation
	// ChainErr is set when the sequence fails the kind check and strict
	// types are off. The pipeline then fails when it reaches the mismatch.
	ChainErr error
}

// Planner resolves goals against a catalog.
type Planner struct {
	completer           llm.Completer
	catalog             *catalog.Catalog
	logger              *slog.Logger
	timeout             time.Duration
	enforceDependencies bool
	strictTypes         bool
	inputKind           value.Kind
	stripReasoning      bool
	pipelineOpts        func() []pipeline.Option[value.Value]
}

type Option func(p *Planner)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTimeout bounds every completion call. 0 disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Planner) {
		p.timeout = timeout
	}
}

// EnforceDependencies makes an order violation fail the resolution.
func EnforceDependencies(enforce bool) Option {
	return func(p *Planner) {
		p.enforceDependencies = enforce
	}
}

// StrictTypes makes a kind mismatch between chained operations fail the resolution.
func StrictTypes(strict bool) Option {
	return func(p *Planner) {
		p.strictTypes = strict
	}
}

// WithInputKind sets the kind fed to the first step when checking chains.
// value.KindInvalid skips the check.
func WithInputKind(kind value.Kind) Option {
	return func(p *Planner) {
		p.inputKind = kind
	}
}

// StripReasoning removes <think> blocks from the reply before the tool list
// is extracted, so a draft list inside them is not taken as the answer.
func StripReasoning(strip bool) Option {
	return func(p *Planner) {
		p.stripReasoning = strip
	}
}

// WithPipelineOptions is called once per built pipeline. Hooks such as a
// measure or a drawer hold per pipeline state, hence the factory.
func WithPipelineOptions(factory func() []pipeline.Option[value.Value]) Option {
	return func(p *Planner) {
		p.pipelineOpts = factory
	}
}

// New creates a planner.
func New(completer llm.Completer, cat *catalog.Catalog, opts ...Option) (*Planner, error) {
	if completer == nil {
		return nil, ErrCompleterMustBeSet
	}
	if cat == nil {
		return nil, ErrCatalogMustBeSet
	}

	p := &Planner{
		completer: completer,
		catalog:   cat,
		logger:    slog.Default(),
		timeout:   DefaultTimeout,
		inputKind: value.KindText,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Catalog returns the catalog plans are resolved against.
func (p *Planner) Catalog() *catalog.Catalog {
	return p.catalog
}

// Plan asks the completion service for the operations serving goal.
//
// The request is appended to history before the call and the reply after a
// successful one, so a failed call leaves a dangling user turn the next
// request follows.
func (p *Planner) Plan(ctx context.Context, history *History, goal string) (*Plan, error) {
	if history == nil {
		return nil, ErrHistoryMustBeSet
	}

	prompt, err := BuildPrompt(p.catalog, goal)
	if err != nil {
		return nil, err
	}
	history.Append(llm.UserMessage(prompt))

	reply, err := p.complete(ctx, history.Messages())
	if err != nil {
		return nil, err
	}
	history.Append(llm.AssistantMessage(reply))

	response := reply
	if p.stripReasoning {
		response = stripReasoning(reply)
	}

	names, err := ExtractToolNames(response)
	if err != nil {
		p.logger.Warn("plan response without tool list", "goal", goal, "error", err)

		return nil, err
	}

	return &Plan{
		ID:          uuid.New(),
		Goal:        goal,
		RawResponse: reply,
		ToolNames:   names,
	}, nil
}

func (p *Planner) complete(ctx context.Context, msgs []llm.Message) (string, error) {
	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	reply, err := p.completer.Complete(callCtx, msgs)
	if err != nil {
		// the caller's own deadline is not ours to report as a completion timeout
		timeout := ctx.Err() == nil &&
			(llm.IsTimeout(err) || errors.Is(callCtx.Err(), context.DeadlineExceeded))

		return "", &CompletionError{Err: err, Timeout: timeout}
	}

	return reply, nil
}

// Build resolves plan against the catalog and assembles the pipeline.
// Unknown names are skipped with a warning and never fail the build.
func (p *Planner) Build(plan *Plan) (*Resolution, error) {
	if plan == nil {
		return nil, ErrPlanMustBeSet
	}

	var opts []pipeline.Option[value.Value]
	if p.pipelineOpts != nil {
		opts = p.pipelineOpts()
	}
	pipe, err := pipeline.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pipeline")
	}

	res := &Resolution{Plan: plan, Pipeline: pipe, Steps: []string{}}
	for i, name := range plan.ToolNames {
		op, ok := p.catalog.Lookup(name)
		if !ok {
			warning := UnknownOperationWarning{Name: name, Index: i}
			p.logger.Warn("unknown tool skipped", "plan", plan.ID, "tool", name, "index", i)
			res.Warnings = append(res.Warnings, warning)

			continue
		}

		err := pipe.AddStep(name, pipeline.StepFunc[value.Value](op.Fn))
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add step %s", name)
		}
		res.Steps = append(res.Steps, name)
	}

	res.OrderViolations = p.catalog.CheckOrder(res.Steps)
	for _, v := range res.OrderViolations {
		p.logger.Warn("tool dependency not respected", "plan", plan.ID, "tool", v.Name, "requires", v.Prerequisite)
	}
	if len(res.OrderViolations) > 0 && p.enforceDependencies {
		return nil, &DependencyOrderError{Violations: res.OrderViolations}
	}

	err = p.catalog.CheckChain(res.Steps, p.inputKind)
	if err != nil {
		if p.strictTypes {
			return nil, err
		}
		p.logger.Warn("incompatible tool chain", "plan", plan.ID, "error", err)
		res.ChainErr = err
	}

	p.logger.Info("plan resolved", "plan", plan.ID, "goal", plan.Goal, "tools", plan.ToolNames, "steps", res.Steps)

	return res, nil
}

// Resolve plans goal and builds the pipeline.
func (p *Planner) Resolve(ctx context.Context, history *History, goal string) (*Resolution, error) {
	plan, err := p.Plan(ctx, history, goal)
	if err != nil {
		return nil, err
	}

	return p.Build(plan)
}
