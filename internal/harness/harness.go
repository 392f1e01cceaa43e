package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/emberproject/ember/internal/runcfg"
	"github.com/emberproject/ember/internal/sweep"
)

// Scenario defines one conformance test case for the configuration
// pipeline. The config text is parsed, the sweep queues are populated,
// and the expect block is checked field by field.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario pins down.
	Description string `yaml:"description,omitempty"`

	// Config is the run-configuration text, inline.
	Config string `yaml:"config"`

	// Expect is the assertion block. Only set fields are checked.
	Expect Expect `yaml:"expect"`
}

// Expect describes the outcome a scenario requires.
//
// Path-valued fields (inputs, output) are compared by base name, since
// the lexer absolutizes paths against the working directory.
type Expect struct {
	Scenario string   `yaml:"scenario,omitempty"`
	Solver   string   `yaml:"solver,omitempty"`
	Method   string   `yaml:"method,omitempty"`
	Threads  int      `yaml:"threads,omitempty"`
	Inputs   []string `yaml:"inputs,omitempty"`
	Output   string   `yaml:"output,omitempty"`

	Tee    *bool `yaml:"tee,omitempty"`
	Myopic *bool `yaml:"myopic,omitempty"`

	// Errors lists the expected illegal-input spans, in order.
	// ErrorCount alone may be used when only the count matters.
	Errors     []SpanExpect `yaml:"errors,omitempty"`
	ErrorCount *int         `yaml:"error_count,omitempty"`

	// Queues maps technique name (mga|moo|mgpa) to the full expected
	// pending list, in order.
	Queues map[string][]string `yaml:"queues,omitempty"`
}

// SpanExpect is one expected illegal-input region.
type SpanExpect struct {
	LineStart int    `yaml:"line_start"`
	LineEnd   int    `yaml:"line_end"`
	Text      string `yaml:"text"`
}

// Result is the outcome of running one scenario.
type Result struct {
	Name     string   `json:"name"`
	Pass     bool     `json:"pass"`
	Failures []string `json:"failures,omitempty"`
}

func (r *Result) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Load reads one scenario file. Unknown YAML fields are an error so a
// typo in an assertion name cannot silently pass.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if s.Config == "" {
		return nil, fmt.Errorf("scenario %s: config is required", path)
	}
	return &s, nil
}

// LoadDir loads every *.yaml scenario in a directory, sorted by
// filename for stable run order.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan scenarios in %s: %w", dir, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", dir)
	}
	sort.Strings(entries)

	scenarios := make([]*Scenario, 0, len(entries))
	for _, path := range entries {
		s, err := Load(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Run parses the scenario's config text and checks every assertion in
// its expect block. Run never returns an error: all mismatches land in
// the Result so a report can show every failure at once.
func Run(s *Scenario) *Result {
	res := &Result{Name: s.Name, Pass: true}

	cfg, spans := runcfg.Parse(s.Config)
	cfg.PopulateQueues()

	checkScalars(res, s.Expect, cfg)
	checkSpans(res, s.Expect, spans)
	checkQueues(res, s.Expect, cfg)

	return res
}

func checkScalars(res *Result, want Expect, cfg *runcfg.Config) {
	if want.Scenario != "" && cfg.ScenarioName != want.Scenario {
		res.fail("scenario = %q, want %q", cfg.ScenarioName, want.Scenario)
	}
	if want.Solver != "" && cfg.Solver != want.Solver {
		res.fail("solver = %q, want %q", cfg.Solver, want.Solver)
	}
	if want.Method != "" && cfg.Method != want.Method {
		res.fail("method = %q, want %q", cfg.Method, want.Method)
	}
	if want.Threads != 0 && cfg.Threads != want.Threads {
		res.fail("threads = %d, want %d", cfg.Threads, want.Threads)
	}
	if want.Output != "" && filepath.Base(cfg.OutputFile) != want.Output {
		res.fail("output = %q, want base name %q", cfg.OutputFile, want.Output)
	}
	if len(want.Inputs) > 0 {
		got := make([]string, len(cfg.InputFiles))
		for i, in := range cfg.InputFiles {
			got[i] = filepath.Base(in)
		}
		if !equalStrings(got, want.Inputs) {
			res.fail("inputs = %v, want %v", got, want.Inputs)
		}
	}
	if want.Tee != nil && cfg.Tee != *want.Tee {
		res.fail("tee = %v, want %v", cfg.Tee, *want.Tee)
	}
	if want.Myopic != nil && cfg.Myopic != *want.Myopic {
		res.fail("myopic = %v, want %v", cfg.Myopic, *want.Myopic)
	}
}

func checkSpans(res *Result, want Expect, spans []runcfg.ErrorSpan) {
	if want.ErrorCount != nil && len(spans) != *want.ErrorCount {
		res.fail("error spans = %d, want %d", len(spans), *want.ErrorCount)
	}
	if len(want.Errors) == 0 {
		if want.ErrorCount == nil && len(spans) > 0 {
			// A scenario that says nothing about errors expects none.
			res.fail("unexpected error spans: %v", spans)
		}
		return
	}
	if len(spans) != len(want.Errors) {
		res.fail("error spans = %d, want %d", len(spans), len(want.Errors))
		return
	}
	for i, w := range want.Errors {
		got := spans[i]
		if got.LineStart != w.LineStart || got.LineEnd != w.LineEnd || got.Text != w.Text {
			res.fail("span[%d] = Line %d to %d %q, want Line %d to %d %q",
				i, got.LineStart, got.LineEnd, got.Text, w.LineStart, w.LineEnd, w.Text)
		}
	}
}

func checkQueues(res *Result, want Expect, cfg *runcfg.Config) {
	for techName, wantPending := range want.Queues {
		var tech sweep.Technique
		switch techName {
		case "mga":
			tech = sweep.TechniqueMGA
		case "moo":
			tech = sweep.TechniqueMOO
		case "mgpa":
			tech = sweep.TechniqueMGPA
		default:
			res.fail("unknown technique %q in queue expectation", techName)
			continue
		}
		got := cfg.Queue(tech).Pending()
		if !equalStrings(got, wantPending) {
			res.fail("%s queue = %v, want %v", techName, got, wantPending)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
