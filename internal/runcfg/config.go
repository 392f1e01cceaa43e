package runcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emberproject/ember/internal/sweep"
)

// Config is the run descriptor built by parsing a configuration file.
//
// Directive application mutates the record directly during lexing; the
// launch package then validates it and populates the sweep queues. The
// record plus the Advance operation is the entire surface the external
// optimization driver needs.
type Config struct {
	// FileLocation is the absolute path of the parsed config file.
	// Set by launch.Build, not by the lexer.
	FileLocation string

	// InputFiles holds the input data paths in declaration order.
	// The first entry is the primary input.
	InputFiles []string

	OutputFile   string
	ScenarioName string

	Solver  string
	Method  string
	Threads int

	Tee           bool
	SaveExcel     bool
	SaveDuals     bool
	SaveTextFile  bool
	Myopic        bool
	MyopicPeriods int
	KeepMyopicDBs bool
	HowToCite     bool
	Version       bool
	NEOS          bool
	KeepPyomoLP   bool

	// PathToData and PathToLogs default to data_files and
	// data_files/debug_logs under the working directory.
	PathToData string
	PathToLogs string

	// Per-technique sweep parameters. A spec is either fully unset or
	// carries the counts its technique needs.
	MGA  sweep.Spec
	MOO  sweep.Spec
	MGPA sweep.Spec

	// RunID is a unique token for this run, assigned by launch.Build.
	RunID string

	// Aborted is set when lex diagnostics were recorded. The caller
	// must check it before starting a run; parsing itself never fails.
	Aborted bool

	mgaQueue  sweep.Queue
	mooQueue  sweep.Queue
	mgpaQueue sweep.Queue
}

// New returns a Config with path defaults applied.
func New() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	dataDir := filepath.Join(wd, "data_files")
	return &Config{
		PathToData: dataDir,
		PathToLogs: filepath.Join(dataDir, "debug_logs"),
	}
}

// SweepSpec returns technique t's parsed sweep parameters.
func (c *Config) SweepSpec(t sweep.Technique) sweep.Spec {
	switch t {
	case sweep.TechniqueMGA:
		return c.MGA
	case sweep.TechniqueMOO:
		return c.MOO
	case sweep.TechniqueMGPA:
		return c.MGPA
	default:
		return sweep.Spec{}
	}
}

// Queue returns technique t's scenario queue, or nil for an unknown
// technique.
func (c *Config) Queue(t sweep.Technique) *sweep.Queue {
	switch t {
	case sweep.TechniqueMGA:
		return &c.mgaQueue
	case sweep.TechniqueMOO:
		return &c.mooQueue
	case sweep.TechniqueMGPA:
		return &c.mgpaQueue
	default:
		return nil
	}
}

// PopulateQueues expands whichever sweep counts are present into the
// per-technique pending queues. Names derive from the current
// ScenarioName, so this must run after validation has confirmed the
// scenario is set.
func (c *Config) PopulateQueues() {
	for _, t := range sweep.Techniques {
		q := c.Queue(t)
		for _, name := range sweep.Expand(t, c.SweepSpec(t), c.ScenarioName) {
			q.Push(name)
		}
	}
}

// Advance moves technique t to its next pending scenario.
//
// If pending names remain, the current ScenarioName is recorded in the
// technique's done queue, the next pending name becomes ScenarioName,
// and Advance returns true. An exhausted technique returns false and
// leaves all state untouched, no matter how often it is called.
// Techniques are fully independent: advancing one never touches
// another's queues.
func (c *Config) Advance(t sweep.Technique) bool {
	q := c.Queue(t)
	if q == nil || q.Len() == 0 {
		return false
	}
	q.Finish(c.ScenarioName)
	next, _ := q.Pop()
	c.ScenarioName = next
	return true
}

// summaryWidth is the label column width of the Summary banner.
const summaryWidth = 30

// Summary renders the aligned run-configuration banner printed before
// a run starts.
func (c *Config) Summary() string {
	spacer := strings.Repeat("-", summaryWidth) + "\n"
	line := func(label string, value any) string {
		return fmt.Sprintf("%*s: %v\n", summaryWidth, label, value)
	}

	var b strings.Builder
	b.WriteString(spacer)
	b.WriteString(line("Config file", c.FileLocation))
	for i, in := range c.InputFiles {
		if i == 0 {
			b.WriteString(line("Input file", in))
		} else {
			b.WriteString(fmt.Sprintf("%*s  %v\n", summaryWidth, " ", in))
		}
	}
	b.WriteString(line("Output file", c.OutputFile))
	b.WriteString(line("Scenario", c.ScenarioName))
	b.WriteString(line("Spreadsheet output", c.SaveExcel))
	b.WriteString(line("Myopic scheme", c.Myopic))
	b.WriteString(line("Myopic years", c.MyopicPeriods))
	b.WriteString(line("Retain myopic databases", c.KeepMyopicDBs))
	b.WriteString(spacer)
	b.WriteString(line("Citation output status", c.HowToCite))
	b.WriteString(line("NEOS status", c.NEOS))
	b.WriteString(line("Version output status", c.Version))
	b.WriteString(spacer)
	b.WriteString(line("Selected solver", c.Solver))
	b.WriteString(line("Selected optimization method", c.Method))
	b.WriteString(line("Selected number of threads", c.Threads))
	b.WriteString(line("Solver outputs status", c.Tee))
	b.WriteString(line("Pyomo LP write status", c.KeepPyomoLP))

	if !c.MGA.IsZero() {
		b.WriteString(spacer)
		b.WriteString(line("MGA slack value", fmtFloat(c.MGA.Slack)))
		b.WriteString(line("MGA # of iterations", fmtInt(c.MGA.Iterations)))
		b.WriteString(line("MGA weighting method", c.MGA.Method))
	}
	if !c.MOO.IsZero() {
		b.WriteString(spacer)
		b.WriteString(line("MOO f1", c.MOO.F1))
		b.WriteString(line("MOO f2", c.MOO.F2))
		b.WriteString(line("MOO c parameter", fmtFloat(c.MOO.C)))
		b.WriteString(line("MOO # of caps", fmtInt(c.MOO.NCaps)))
	}
	if !c.MGPA.IsZero() {
		b.WriteString(spacer)
		b.WriteString(line("MGPA f1", c.MGPA.F1))
		b.WriteString(line("MGPA f2", c.MGPA.F2))
		b.WriteString(line("MGPA c parameter", fmtFloat(c.MGPA.C)))
		b.WriteString(line("MGPA # of caps", fmtInt(c.MGPA.NCaps)))
		b.WriteString(line("MGPA slack1 value", fmtFloat(c.MGPA.Slack1)))
		b.WriteString(line("MGPA slack2 value", fmtFloat(c.MGPA.Slack2)))
		b.WriteString(line("MGPA # of iterations", fmtInt(c.MGPA.Iterations)))
		b.WriteString(line("MGPA weighting method", c.MGPA.Method))
	}
	b.WriteString(spacer)
	return b.String()
}

func fmtFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%g", *p)
}

func fmtInt(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}
