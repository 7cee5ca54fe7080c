package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askiada/go-planflow/internal/config"
	"github.com/askiada/go-planflow/pkg/pipeline"
	"github.com/askiada/go-planflow/pkg/pipeline/drawer"
	"github.com/askiada/go-planflow/pkg/pipeline/measure"
	"github.com/askiada/go-planflow/pkg/pipeline/model"
	"github.com/askiada/go-planflow/pkg/value"
)

const metricsNamespace = "planflow"

func rootCmd() *cobra.Command {
	var configPath string
	v := viper.New()

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Plan and run text pipelines from a natural language goal",
		Long: `planflow sends a goal and the list of available text operations to a local
Ollama model, reads back the operations it picked and runs them in order.

Operations:
- clean_text: lowercases and removes punctuation
- extract_keywords: splits text into keywords
- sentiment_analysis: scores polarity and subjectivity`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")
	flags.String("base-url", "", "Ollama base URL")
	flags.String("model", "", "Model name")
	bindFlags(v, cmd, map[string]string{
		"log_level":      "log-level",
		"log_format":     "log-format",
		"model.base_url": "base-url",
		"model.name":     "model",
	})

	load := func(cmd *cobra.Command) (*app, error) {
		cfg, err := config.LoadWith(v, configPath)
		if err != nil {
			return nil, errors.Wrap(err, "load config")
		}

		return newApp(cfg, cmd.ErrOrStderr())
	}

	cmd.AddCommand(runCmd(load), planCmd(load), toolsCmd(load), versionCmd())

	return cmd
}

// bindFlags binds config keys to flags. Unset flags fall back to the file,
// the environment or the defaults.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag))
	}
}

type loader func(cmd *cobra.Command) (*app, error)

func runCmd(load loader) *cobra.Command {
	var (
		goal        string
		inputs      []string
		dotFile     string
		metricsFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Plan a pipeline for a goal and run it on every input",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			msr := measure.NewDefaultMeasure()
			reg := prometheus.NewRegistry()
			hooks := func() []pipeline.Option[value.Value] {
				opts := []model.PipelineOption{
					measure.PipelineMeasure(msr),
					measure.PrometheusMeasure(reg, metricsNamespace),
				}
				if dotFile != "" {
					opts = append(opts, drawer.PipelineDrawer(drawer.NewDOTDrawer(dotFile), msr))
				}

				return []pipeline.Option[value.Value]{pipeline.WithOptions[value.Value](opts...)}
			}

			p, err := a.planner(hooks)
			if err != nil {
				return err
			}

			res, err := p.Resolve(cmd.Context(), a.history(), goal)
			if err != nil {
				return err
			}

			values := make([]value.Value, len(inputs))
			for i, in := range inputs {
				values[i] = value.Text(in)
			}

			outputs, err := res.Pipeline.RunAll(cmd.Context(), values, a.cfg.Run.Concurrency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, o := range outputs {
				fmt.Fprintln(out, o.String())
			}

			for _, load := range measure.Bottlenecks(msr) {
				a.logger.Debug("step load",
					"step", load.Name,
					"avg", load.Average,
					"count", load.Count,
					"share", fmt.Sprintf("%.1f%%", load.Share*100),
				)
			}

			if metricsFile != "" {
				err = prometheus.WriteToTextfile(metricsFile, reg)
				if err != nil {
					return errors.Wrapf(err, "unable to write metrics to %s", metricsFile)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Goal in natural language")
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "Input text, repeatable")
	cmd.Flags().StringVar(&dotFile, "dot", "", "Write the pipeline graph to this DOT file")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	_ = cmd.MarkFlagRequired("goal")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func planCmd(load loader) *cobra.Command {
	var goal string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the operations the model picks for a goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			p, err := a.planner(nil)
			if err != nil {
				return err
			}

			res, err := p.Resolve(cmd.Context(), a.history(), goal)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "plan %s\n", res.Plan.ID)
			for i, name := range res.Steps {
				fmt.Fprintf(out, "%d. %s\n", i+1, name)
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			for _, v := range res.OrderViolations {
				fmt.Fprintf(out, "warning: %s\n", v)
			}
			if res.ChainErr != nil {
				fmt.Fprintf(out, "warning: %s\n", res.ChainErr)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Goal in natural language")
	_ = cmd.MarkFlagRequired("goal")

	return cmd
}

func toolsCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available operations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, op := range a.catalog.Operations() {
				line := fmt.Sprintf("%s: %s", op.Name, op.Description)
				if deps := a.catalog.Dependencies(op.Name); len(deps) > 0 {
					line += " (after " + strings.Join(deps, ", ") + ")"
				}
				fmt.Fprintln(out, line)
			}

			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}
