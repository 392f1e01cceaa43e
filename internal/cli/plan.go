package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/emberproject/ember/internal/launch"
	"github.com/emberproject/ember/internal/runcfg"
	"github.com/emberproject/ember/internal/sweep"
)

// TechniquePlan lists one technique's pending scenario names in order.
type TechniquePlan struct {
	Technique string   `json:"technique" yaml:"technique"`
	Pending   []string `json:"pending" yaml:"pending"`
}

// Plan is the sweep expansion for a config, shaped for driver tooling.
type Plan struct {
	Scenario   string          `json:"scenario" yaml:"scenario"`
	Techniques []TechniquePlan `json:"techniques" yaml:"techniques"`
	Total      int             `json:"total" yaml:"total"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "plan <config>",
		Short: "Show the scenario queues a config would expand to",
		Long: `Parse a run-configuration file and expand its sweep blocks into the
per-technique scenario queues, without touching any files on disk.

The printed order is the order the driver will solve scenarios in.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(rootOpts, args[0], asYAML, cmd)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "emit the plan as YAML")

	return cmd
}

func runPlan(opts *RootOptions, configPath string, asYAML bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	text, err := os.ReadFile(configPath)
	if err != nil {
		_ = formatter.Error(launch.ErrCodeConfigMissing, fmt.Sprintf("cannot read config file: %v", err), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("cannot read config file %s", configPath))
	}

	cfg, spans := runcfg.Parse(string(text))
	if len(spans) > 0 {
		_ = formatter.Error(launch.ErrCodeConfigMissing, "config file contains illegal input; run `ember validate` for details", nil)
		return NewExitError(ExitFailure, fmt.Sprintf("%d illegal-input span(s) in %s", len(spans), configPath))
	}

	cfg.PopulateQueues()
	plan := buildPlan(cfg)

	if asYAML {
		out, err := yaml.Marshal(plan)
		if err != nil {
			return WrapExitError(ExitCommandError, "marshal plan", err)
		}
		fmt.Fprint(formatter.Writer, string(out))
		return nil
	}
	if formatter.Format == "json" {
		return formatter.Success(plan)
	}

	fmt.Fprintf(formatter.Writer, "Scenario: %s\n", plan.Scenario)
	for _, tp := range plan.Techniques {
		fmt.Fprintf(formatter.Writer, "%s (%d pending):\n", tp.Technique, len(tp.Pending))
		for _, name := range tp.Pending {
			fmt.Fprintf(formatter.Writer, "  %s\n", name)
		}
	}
	fmt.Fprintf(formatter.Writer, "%d scenario(s) total\n", plan.Total)
	return nil
}

// buildPlan snapshots the populated queues. Techniques with nothing
// pending are omitted.
func buildPlan(cfg *runcfg.Config) *Plan {
	plan := &Plan{Scenario: cfg.ScenarioName}
	for _, t := range sweep.Techniques {
		pending := cfg.Queue(t).Pending()
		if len(pending) == 0 {
			continue
		}
		plan.Techniques = append(plan.Techniques, TechniquePlan{
			Technique: t.String(),
			Pending:   pending,
		})
		plan.Total += len(pending)
	}
	return plan
}
