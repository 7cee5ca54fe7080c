// Package pipeline provides a sequential execution engine for named steps.
//
// A pipeline is an ordered list of steps. Running it threads a single value through every
// step: each step consumes the output of the previous one and the output of the last step is
// the result of the run. A pipeline without steps returns its input unchanged.
//
// The pipeline stops on the first error. The returned error is a *StepError naming the step
// that failed and wrapping the cause untouched, so errors.Is and errors.As see through it.
//
// Options implementing model.PipelineOption observe the pipeline: they are told about every
// step when it is added and about every output when it is produced. The measure and drawer
// sub packages provide such options.
//
// Steps are appended while the pipeline is built. The first run freezes the pipeline; it can
// then be run again, including from several goroutines at once, since every run only touches
// its own input and output values.
package pipeline
