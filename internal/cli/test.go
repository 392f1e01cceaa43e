package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberproject/ember/internal/harness"
)

// TestSummary is the JSON payload for a test run.
type TestSummary struct {
	Total   int               `json:"total"`
	Passed  int               `json:"passed"`
	Failed  int               `json:"failed"`
	Results []*harness.Result `json:"results"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run YAML conformance scenarios",
		Long: `Run every YAML scenario in a directory through the configuration
pipeline and report mismatches. Scenarios pin the parsing and sweep
expansion behavior external drivers depend on.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTest(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenarios, err := harness.LoadDir(dir)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "load scenarios", err)
	}

	summary := &TestSummary{Total: len(scenarios)}
	for _, s := range scenarios {
		formatter.VerboseLog("Running scenario: %s", s.Name)
		res := harness.Run(s)
		summary.Results = append(summary.Results, res)
		if res.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		for _, res := range summary.Results {
			if res.Pass {
				fmt.Fprintf(formatter.Writer, "✓ %s\n", res.Name)
				continue
			}
			fmt.Fprintf(formatter.Writer, "✗ %s\n", res.Name)
			for _, f := range res.Failures {
				fmt.Fprintf(formatter.Writer, "    %s\n", f)
			}
		}
		fmt.Fprintf(formatter.Writer, "\n%d/%d scenario(s) passed\n", summary.Passed, summary.Total)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", summary.Failed))
	}
	return nil
}
