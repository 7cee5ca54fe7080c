// Package model provides the data structures shared by the pipeline package and its options.
// It defines the step descriptions handed to pipeline options and the hook interface
// that measure and drawer implement.
package model
