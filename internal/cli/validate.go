package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberproject/ember/internal/launch"
	"github.com/emberproject/ember/internal/runcfg"
)

// Finding is one structural problem discovered by validate.
type Finding struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SpanResult is one illegal-input region, shaped for JSON output.
type SpanResult struct {
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
	Text      string `json:"text"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool         `json:"valid"`
	Spans    []SpanResult `json:"spans,omitempty"`
	Findings []Finding    `json:"findings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Lex and structurally check a config file",
		Long: `Validate a run-configuration file without touching any model data.

Reports accumulated illegal-input spans and missing required fields.
No files are converted and nothing is written besides the report.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, configPath string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("Parsed %s: %d input file(s), %d error span(s)",
		configPath, len(cfg.InputFiles), len(spans))

	result := ValidationResult{Valid: true}
	for _, s := range spans {
		result.Spans = append(result.Spans, SpanResult{LineStart: s.LineStart, LineEnd: s.LineEnd, Text: s.Text})
	}
	result.Findings = structuralFindings(cfg)
	result.Valid = len(result.Spans) == 0 && len(result.Findings) == 0

	if result.Valid {
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintln(formatter.Writer, "✓ Config valid")
		return nil
	}

	return outputValidationResult(formatter, result, spans)
}

// structuralFindings applies the required-field checks that need no
// disk access. The relational-mode checks mirror launch.Build: output
// and scenario are required only when the last classifiable input is
// relational.
func structuralFindings(cfg *runcfg.Config) []Finding {
	var findings []Finding
	if len(cfg.InputFiles) == 0 {
		findings = append(findings, Finding{Code: launch.ErrCodeNoInputs, Message: "input file not specified"})
		return findings
	}
	if !launch.RelationalMode(cfg.InputFiles) {
		return findings
	}
	if cfg.OutputFile == "" {
		findings = append(findings, Finding{Code: launch.ErrCodeOutputNotSet, Message: "output file not specified"})
	}
	if cfg.ScenarioName == "" {
		findings = append(findings, Finding{Code: launch.ErrCodeScenarioNotSet, Message: "scenario name not specified"})
	}
	return findings
}

func outputValidationResult(formatter *OutputFormatter, result ValidationResult, spans []runcfg.ErrorSpan) error {
	total := len(result.Spans) + len(result.Findings)

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", total))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	if len(spans) > 0 {
		fmt.Fprint(formatter.Writer, runcfg.Report(spans))
	}
	for _, f := range result.Findings {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", f.Code, f.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", total))
}
