package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberproject/ember/internal/export"
	"github.com/emberproject/ember/internal/launch"
	"github.com/emberproject/ember/internal/runcfg"
)

// PrepareResult is the JSON payload for a successful prepare.
type PrepareResult struct {
	RunID    string   `json:"run_id"`
	Scenario string   `json:"scenario"`
	Inputs   []string `json:"inputs"`
	Output   string   `json:"output,omitempty"`
	Aborted  bool     `json:"aborted"`
}

// NewPrepareCommand creates the prepare command.
func NewPrepareCommand(rootOpts *RootOptions) *cobra.Command {
	var defaultSolver string

	cmd := &cobra.Command{
		Use:   "prepare <config>",
		Short: "Validate a config and convert its inputs for a run",
		Long: `Run the full launch sequence for a configuration file: lex, validate
against the filesystem, populate the sweep queues, and convert every
relational input into its flat DAT dataset.

This is what the run driver executes before handing scenarios to the
optimization engine.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(rootOpts, args[0], defaultSolver, cmd)
		},
	}

	cmd.Flags().StringVar(&defaultSolver, "default-solver", "", "solver to use when the config names none")

	return cmd
}

func runPrepare(opts *RootOptions, configPath, defaultSolver string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := launch.Build(cmd.Context(), configPath, launch.Options{DefaultSolver: defaultSolver})
	if err != nil {
		return outputLaunchError(formatter, err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(prepareResult(cfg)); err != nil {
			return err
		}
	} else {
		fmt.Fprint(formatter.Writer, cfg.Summary())
	}

	if cfg.Aborted {
		// Diagnostics were persisted by launch; the run must not start.
		return NewExitError(ExitFailure, "config file contains illegal input; see the diagnostic log")
	}
	return nil
}

func prepareResult(cfg *runcfg.Config) PrepareResult {
	return PrepareResult{
		RunID:    cfg.RunID,
		Scenario: cfg.ScenarioName,
		Inputs:   cfg.InputFiles,
		Output:   cfg.OutputFile,
		Aborted:  cfg.Aborted,
	}
}

// outputLaunchError maps launch failures to exit codes: configuration
// problems are validation failures (1), storage and write problems are
// command errors (2).
func outputLaunchError(formatter *OutputFormatter, err error) error {
	var cfgErr *launch.ConfigError
	if errors.As(err, &cfgErr) {
		_ = formatter.Error(cfgErr.Code, cfgErr.Error(), nil)
		return WrapExitError(ExitFailure, "configuration invalid", err)
	}
	var stErr *export.StorageError
	if errors.As(err, &stErr) {
		_ = formatter.Error(stErr.Code, stErr.Error(), nil)
		return WrapExitError(ExitCommandError, "export failed", err)
	}
	var schErr *export.SchemaError
	if errors.As(err, &schErr) {
		_ = formatter.Error(schErr.Code, schErr.Error(), nil)
		return WrapExitError(ExitCommandError, "schema invalid", err)
	}
	_ = formatter.Error("E001", err.Error(), nil)
	return WrapExitError(ExitCommandError, "prepare failed", err)
}
