package model

import "time"

// PipelineOption defines the interface for pipeline options.
// Implementations must be safe for concurrent use: independent runs of the same
// pipeline call OnStepOutput from several goroutines.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStepOption

	// Finish runs after a run, or a batch of runs, succeeded.
	Finish() error
}

// pipelineStepOption defines the interface for step options at the pipeline level.
type pipelineStepOption interface {
	// PrepareStep runs when the step is appended to the pipeline.
	PrepareStep(parentStep, step *StepInfo) error
	// OnStepOutput runs everytime the step produced an output.
	OnStepOutput(parentStep, step *StepInfo, preview string, computationDuration time.Duration) error
}
