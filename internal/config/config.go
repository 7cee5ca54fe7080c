// Package config loads the planflow settings from defaults, an optional
// planflow.yaml file and PLANFLOW_ environment variables, in increasing order
// of precedence.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/askiada/go-planflow/pkg/llm"
	"github.com/askiada/go-planflow/pkg/planner"
)

const (
	EnvPrefix = "PLANFLOW"
	FileName  = "planflow"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type ModelConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Name        string        `mapstructure:"name"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature *float64      `mapstructure:"temperature"`
}

type PlannerConfig struct {
	SystemPrompt        string `mapstructure:"system_prompt"`
	HistoryLimit        int    `mapstructure:"history_limit"`
	EnforceDependencies bool   `mapstructure:"enforce_dependencies"`
	StrictTypes         bool   `mapstructure:"strict_types"`
	StripReasoning      bool   `mapstructure:"strip_reasoning"`
}

type RunConfig struct {
	PreviewLength int `mapstructure:"preview_length"`
	Concurrency   int `mapstructure:"concurrency"`
}

type LexiconConfig struct {
	// File replaces the embedded sentiment lexicon when set.
	File string `mapstructure:"file"`
}

type Config struct {
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
	Model     ModelConfig   `mapstructure:"model"`
	Planner   PlannerConfig `mapstructure:"planner"`
	Run       RunConfig     `mapstructure:"run"`
	Lexicon   LexiconConfig `mapstructure:"lexicon"`
}

func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Model: ModelConfig{
			BaseURL: llm.DefaultBaseURL,
			Name:    llm.DefaultModel,
			Timeout: llm.DefaultTimeout,
		},
		Planner: PlannerConfig{
			SystemPrompt: planner.DefaultSystemPrompt,
		},
		Run: RunConfig{
			PreviewLength: 80,
			Concurrency:   4,
		},
	}
}

// Load reads the configuration. An empty file searches planflow.yaml in the
// working directory and in $HOME/.planflow; a missing file is not an error
// unless it was named explicitly.
func Load(file string) (*Config, error) {
	return LoadWith(viper.New(), file)
}

// LoadWith is Load on a caller provided viper instance, so flags bound to it
// take precedence over the file.
func LoadWith(v *viper.Viper, file string) (*Config, error) {
	cfg := Default()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.planflow")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)

	v.SetDefault("model.base_url", cfg.Model.BaseURL)
	v.SetDefault("model.name", cfg.Model.Name)
	v.SetDefault("model.timeout", cfg.Model.Timeout)
	// no default: unset keeps the model's own temperature
	v.SetDefault("model.temperature", nil)

	v.SetDefault("planner.system_prompt", cfg.Planner.SystemPrompt)
	v.SetDefault("planner.history_limit", cfg.Planner.HistoryLimit)
	v.SetDefault("planner.enforce_dependencies", cfg.Planner.EnforceDependencies)
	v.SetDefault("planner.strict_types", cfg.Planner.StrictTypes)
	v.SetDefault("planner.strip_reasoning", cfg.Planner.StripReasoning)

	v.SetDefault("run.preview_length", cfg.Run.PreviewLength)
	v.SetDefault("run.concurrency", cfg.Run.Concurrency)

	v.SetDefault("lexicon.file", cfg.Lexicon.File)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read configuration file")
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Model.BaseURL == "" {
		return errors.Wrap(ErrInvalidConfig, "the model base URL cannot be empty")
	}

	if c.Model.Name == "" {
		return errors.Wrap(ErrInvalidConfig, "the model name cannot be empty")
	}

	if c.Model.Timeout <= 0 {
		return errors.Wrap(ErrInvalidConfig, "the model timeout must be positive")
	}

	if c.Model.Temperature != nil && (*c.Model.Temperature < 0 || *c.Model.Temperature > 2) {
		return errors.Wrapf(ErrInvalidConfig, "the model temperature must be between 0 and 2, got %v", *c.Model.Temperature)
	}

	if c.Planner.HistoryLimit < 0 {
		return errors.Wrap(ErrInvalidConfig, "the history limit cannot be negative")
	}

	if c.Run.Concurrency < 0 {
		return errors.Wrap(ErrInvalidConfig, "the run concurrency cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.Wrapf(ErrInvalidConfig, "invalid log level: %s", c.LogLevel)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[c.LogFormat] {
		return errors.Wrapf(ErrInvalidConfig, "invalid log format: %s", c.LogFormat)
	}

	return nil
}
