package main

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/internal/config"
	"github.com/askiada/go-planflow/internal/logger"
	"github.com/askiada/go-planflow/pkg/catalog"
	"github.com/askiada/go-planflow/pkg/llm"
	"github.com/askiada/go-planflow/pkg/pipeline"
	"github.com/askiada/go-planflow/pkg/planner"
	"github.com/askiada/go-planflow/pkg/textops"
	"github.com/askiada/go-planflow/pkg/value"
)

// app holds the components every command is built from.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog *catalog.Catalog
	client  *llm.OllamaClient
}

func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	log := logger.New(cfg.LogLevel, cfg.LogFormat, logOut)

	lexicon := textops.DefaultLexicon()
	if cfg.Lexicon.File != "" {
		var err error
		lexicon, err = textops.LoadLexiconFile(cfg.Lexicon.File)
		if err != nil {
			return nil, err
		}
	}

	cat, err := textops.NewCatalog(lexicon)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build catalog")
	}

	client := llm.NewOllamaClient(llm.OllamaConfig{
		BaseURL:     cfg.Model.BaseURL,
		Model:       cfg.Model.Name,
		Timeout:     cfg.Model.Timeout,
		Temperature: cfg.Model.Temperature,
	})

	return &app{cfg: cfg, logger: log, catalog: cat, client: client}, nil
}

func (a *app) history() *planner.History {
	return planner.NewHistory(a.cfg.Planner.SystemPrompt, planner.WithTurnLimit(a.cfg.Planner.HistoryLimit))
}

// planner builds a planner whose pipelines carry hooks and the run logger.
func (a *app) planner(hooks func() []pipeline.Option[value.Value]) (*planner.Planner, error) {
	return planner.New(a.client, a.catalog,
		planner.WithLogger(a.logger),
		planner.WithTimeout(a.cfg.Model.Timeout),
		planner.EnforceDependencies(a.cfg.Planner.EnforceDependencies),
		planner.StrictTypes(a.cfg.Planner.StrictTypes),
		planner.StripReasoning(a.cfg.Planner.StripReasoning),
		planner.WithPipelineOptions(func() []pipeline.Option[value.Value] {
			opts := []pipeline.Option[value.Value]{
				pipeline.WithLogger[value.Value](a.logger),
				pipeline.WithPreview(value.Value.String, a.cfg.Run.PreviewLength),
			}
			if hooks != nil {
				opts = append(opts, hooks()...)
			}

			return opts
		}),
	)
}
