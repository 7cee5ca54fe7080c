package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-planflow/internal/config"
	"github.com/askiada/go-planflow/pkg/llm"
	"github.com/askiada/go-planflow/pkg/planner"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "planflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Nil(t, cfg.Model.Temperature)
	assert.Equal(t, llm.DefaultBaseURL, cfg.Model.BaseURL)
	assert.Equal(t, llm.DefaultModel, cfg.Model.Name)
	assert.Equal(t, llm.DefaultTimeout, cfg.Model.Timeout)
	assert.Equal(t, planner.DefaultSystemPrompt, cfg.Planner.SystemPrompt)
	assert.False(t, cfg.Planner.StripReasoning)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
log_level: debug
log_format: json
model:
  name: llama3
  timeout: 5s
  temperature: 0.2
planner:
  history_limit: 6
  enforce_dependencies: true
  strip_reasoning: true
run:
  concurrency: 2
lexicon:
  file: /tmp/lexicon.yaml
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "llama3", cfg.Model.Name)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.Model.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Model.Timeout)
	require.NotNil(t, cfg.Model.Temperature)
	assert.InDelta(t, 0.2, *cfg.Model.Temperature, 1e-9)
	assert.Equal(t, 6, cfg.Planner.HistoryLimit)
	assert.True(t, cfg.Planner.EnforceDependencies)
	assert.False(t, cfg.Planner.StrictTypes)
	assert.True(t, cfg.Planner.StripReasoning)
	assert.Equal(t, 2, cfg.Run.Concurrency)
	assert.Equal(t, 80, cfg.Run.PreviewLength)
	assert.Equal(t, "/tmp/lexicon.yaml", cfg.Lexicon.File)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "model:\n  name: llama3\n")
	t.Setenv("PLANFLOW_MODEL_NAME", "mistral")
	t.Setenv("PLANFLOW_PLANNER_STRICT_TYPES", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.Model.Name)
	assert.True(t, cfg.Planner.StrictTypes)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	path := writeFile(t, "log_level: loud\n")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]func(c *config.Config){
		"empty base url":   func(c *config.Config) { c.Model.BaseURL = "" },
		"empty model":      func(c *config.Config) { c.Model.Name = "" },
		"zero timeout":     func(c *config.Config) { c.Model.Timeout = 0 },
		"hot temperature":  func(c *config.Config) { v := 3.0; c.Model.Temperature = &v },
		"negative history": func(c *config.Config) { c.Planner.HistoryLimit = -1 },
		"negative workers": func(c *config.Config) { c.Run.Concurrency = -1 },
		"bad log format":   func(c *config.Config) { c.LogFormat = "xml" },
	}

	require.NoError(t, config.Default().Validate())

	for name, mutate := range tcs {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}
}
