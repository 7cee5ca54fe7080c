package pipeline

import (
	"log/slog"

	"github.com/askiada/go-planflow/pkg/pipeline/model"
)

const defaultPreviewLength = 80

type Option[T any] func(p *Pipeline[T])

// WithOptions attaches pipeline options such as measure or drawer.
func WithOptions[T any](opts ...model.PipelineOption) Option[T] {
	return func(p *Pipeline[T]) {
		p.opts = append(p.opts, opts...)
	}
}

// WithLogger sets the logger receiving one trace event per step output.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(p *Pipeline[T]) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPreview sets how outputs are rendered in trace events and how many runes are kept.
// A nil formatter keeps fmt.Sprint, a non positive length disables truncation.
func WithPreview[T any](format func(T) string, length int) Option[T] {
	return func(p *Pipeline[T]) {
		if format != nil {
			p.format = format
		}
		p.previewLength = length
	}
}
