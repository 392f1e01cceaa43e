package runcfg

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/emberproject/ember/internal/sweep"
)

// lexMode identifies the lexer's current directive table. The three
// sweep modes are mutually exclusive and single-level: a sweep block
// opener switches from modeDefault into the technique's mode, a bare
// `}` switches back. Blocks never nest.
type lexMode int

const (
	modeDefault lexMode = iota
	modeMGA
	modeMOO
	modeMGPA
)

// rule is one directive pattern for a mode. Patterns are anchored at
// the cursor with \A; apply mutates the Config from the capture groups.
// An apply error means the payload was malformed (e.g. "1.2.3" for a
// float); the rule is then treated as unmatched and the cursor falls
// through to the error accumulator.
type rule struct {
	pattern *regexp.Regexp
	apply   func(l *lexer, groups []string) error
}

// Token classes shared by every mode. The comment pattern stops before
// the newline so line accounting stays with the newline rule.
var (
	reNewline = regexp.MustCompile(`\A(\r\n|\r|\n)`)
	reSpace   = regexp.MustCompile(`\A[ \t]+`)
	reComment = regexp.MustCompile(`\A#[^\r\n]*`)
)

// lexer is the explicit cursor state for one parse pass.
type lexer struct {
	src  string
	pos  int // byte offset of the cursor
	line int // 1-based current line
	mode lexMode
	cfg  *Config

	spans []ErrorSpan
}

// Parse lexes a full configuration text into a Config plus the
// accumulated illegal-input spans. Parsing never fails: malformed
// bytes are skipped one at a time and recorded, and lexing continues
// to end of input. Callers decide what the spans mean (the launch
// package persists them and marks the run aborted).
func Parse(src string) (*Config, []ErrorSpan) {
	l := &lexer{src: src, line: 1, cfg: New()}
	l.run()
	return l.cfg, l.spans
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]

		if m := reNewline.FindString(rest); m != "" {
			l.line++
			l.pos += len(m)
			continue
		}
		if m := reSpace.FindString(rest); m != "" {
			l.pos += len(m)
			continue
		}
		if m := reComment.FindString(rest); m != "" {
			l.pos += len(m)
			continue
		}

		if !l.directive(rest) {
			l.illegalByte()
		}
	}
}

// directive tries the current mode's rules in table order and consumes
// the first one that matches with a well-formed payload.
func (l *lexer) directive(rest string) bool {
	for _, r := range ruleTables[l.mode] {
		groups := r.pattern.FindStringSubmatch(rest)
		if groups == nil {
			continue
		}
		if err := r.apply(l, groups); err != nil {
			// Malformed payload. Fall through to the accumulator.
			return false
		}
		l.consume(groups[0])
		return true
	}
	return false
}

// consume advances the cursor past matched text, counting every
// newline variant (LF, CRLF, CR) as one line. Directive separators
// admit newlines, so a match may span lines.
func (l *lexer) consume(text string) {
	l.pos += len(text)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			l.line++
		case '\r':
			l.line++
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		}
	}
}

// illegalByte records the byte at the cursor and skips it. A byte at
// the offset immediately after the previous span extends that span;
// any gap starts a new one.
func (l *lexer) illegalByte() {
	ch := l.src[l.pos]
	if n := len(l.spans); n > 0 && l.pos-l.spans[n-1].OffsetEnd == 1 {
		s := &l.spans[n-1]
		s.LineEnd = l.line
		s.OffsetEnd = l.pos
		s.Text += string(ch)
	} else {
		l.spans = append(l.spans, ErrorSpan{
			LineStart:   l.line,
			LineEnd:     l.line,
			OffsetStart: l.pos,
			OffsetEnd:   l.pos,
			Text:        string(ch),
		})
	}
	l.pos++
}

// Rule constructors. Each compiles the anchored pattern once at
// package init.

func boolRule(pattern string, set func(c *Config)) rule {
	re := regexp.MustCompile(pattern)
	return rule{re, func(l *lexer, _ []string) error {
		set(l.cfg)
		return nil
	}}
}

func wordRule(pattern string, set func(c *Config, v string)) rule {
	re := regexp.MustCompile(pattern)
	return rule{re, func(l *lexer, groups []string) error {
		set(l.cfg, groups[1])
		return nil
	}}
}

func pathRule(pattern string, set func(c *Config, v string)) rule {
	re := regexp.MustCompile(pattern)
	return rule{re, func(l *lexer, groups []string) error {
		abs, err := filepath.Abs(strings.TrimSpace(groups[1]))
		if err != nil {
			return err
		}
		set(l.cfg, abs)
		return nil
	}}
}

func intRule(pattern string, set func(c *Config, v int)) rule {
	re := regexp.MustCompile(pattern)
	return rule{re, func(l *lexer, groups []string) error {
		v, err := strconv.Atoi(groups[1])
		if err != nil {
			return err
		}
		set(l.cfg, v)
		return nil
	}}
}

func floatRule(pattern string, set func(c *Config, v float64)) rule {
	re := regexp.MustCompile(pattern)
	return rule{re, func(l *lexer, groups []string) error {
		// The character class [.\d]+ admits shapes like "1.2.3";
		// those are lexer errors, never silent defaults.
		v, err := strconv.ParseFloat(groups[1], 64)
		if err != nil {
			return err
		}
		set(l.cfg, v)
		return nil
	}}
}

func methodRule(pattern string, set func(c *Config, m sweep.Method)) rule {
	re := regexp.MustCompile(pattern)
	return rule{re, func(l *lexer, groups []string) error {
		m, ok := sweep.ParseMethod(groups[1])
		if !ok {
			return strconv.ErrSyntax
		}
		set(l.cfg, m)
		return nil
	}}
}

func objectiveRule(pattern string, set func(c *Config, o sweep.Objective)) rule {
	re := regexp.MustCompile(pattern)
	return rule{re, func(l *lexer, groups []string) error {
		o, ok := sweep.ParseObjective(groups[1])
		if !ok {
			return strconv.ErrSyntax
		}
		set(l.cfg, o)
		return nil
	}}
}

func enterRule(pattern string, m lexMode) rule {
	re := regexp.MustCompile(pattern)
	return rule{re, func(l *lexer, _ []string) error {
		l.mode = m
		return nil
	}}
}

// ruleTables maps each mode to its ordered directive table. Word
// boundaries keep prefixed directives apart (`--tee` never matches
// inside `--teeX`, `--myopic` never matches inside
// `--myopic_periods`).
var ruleTables = map[lexMode][]rule{
	modeDefault: {
		pathRule(`\A--input[\s=]+([-\\/:.~\w]+\.(?:dat|db|sqlite))\b`, func(c *Config, v string) {
			c.InputFiles = append(c.InputFiles, v)
		}),
		pathRule(`\A--output[\s=]+([-\\/:.~\w]+\.(?:db|sqlite))\b`, func(c *Config, v string) {
			c.OutputFile = v
		}),
		wordRule(`\A--scenario[\s=]+(\w+)\b`, func(c *Config, v string) { c.ScenarioName = v }),
		boolRule(`\A--saveEXCEL\b`, func(c *Config) { c.SaveExcel = true }),
		boolRule(`\A--saveDUALS\b`, func(c *Config) { c.SaveDuals = true }),
		boolRule(`\A--saveTEXTFILE\b`, func(c *Config) { c.SaveTextFile = true }),
		intRule(`\A--myopic_periods[\s=]+(\d+)`, func(c *Config, v int) { c.MyopicPeriods = v }),
		boolRule(`\A--myopic\b`, func(c *Config) { c.Myopic = true }),
		boolRule(`\A--keep_myopic_databases\b`, func(c *Config) { c.KeepMyopicDBs = true }),
		boolRule(`\A--keep_pyomo_lp_file\b`, func(c *Config) { c.KeepPyomoLP = true }),
		pathRule(`\A--path_to_data[\s=]+([-\\/:.~\w ]+)\b`, func(c *Config, v string) {
			c.PathToData = v
		}),
		pathRule(`\A--path_to_logs[\s=]+([-\\/:.~\w ]+)\b`, func(c *Config, v string) {
			c.PathToLogs = v
		}),
		boolRule(`\A--how_to_cite\b`, func(c *Config) { c.HowToCite = true }),
		boolRule(`\A--version\b`, func(c *Config) { c.Version = true }),
		boolRule(`\A--neos\b`, func(c *Config) { c.NEOS = true }),
		wordRule(`\A--solver[\s=]+(\w+)\b`, func(c *Config, v string) { c.Solver = v }),
		wordRule(`\A--method[\s=]+(\w+)\b`, func(c *Config, v string) { c.Method = v }),
		intRule(`\A--threads[\s=]+(\d+)\b`, func(c *Config, v int) { c.Threads = v }),
		boolRule(`\A--tee\b`, func(c *Config) { c.Tee = true }),
		enterRule(`\A--mga[\s=]+\{`, modeMGA),
		enterRule(`\A--moo[\s=]+\{`, modeMOO),
		enterRule(`\A--mgpa[\s=]+\{`, modeMGPA),
	},
	modeMGA: {
		floatRule(`\Aslack[\s=]+([.\d]+)`, func(c *Config, v float64) { c.MGA.Slack = &v }),
		intRule(`\Aiteration[\s=]+(\d+)`, func(c *Config, v int) { c.MGA.Iterations = &v }),
		methodRule(`\Amethod[\s=]+(integer|normalized|random)\b`, func(c *Config, m sweep.Method) {
			c.MGA.Method = m
		}),
		enterRule(`\A\}`, modeDefault),
	},
	modeMOO: {
		objectiveRule(`\Af1[\s=]+(cost|emissions|energySR|materialSR)\b`, func(c *Config, o sweep.Objective) {
			c.MOO.F1 = o
		}),
		objectiveRule(`\Af2[\s=]+(cost|emissions|energySR|materialSR)\b`, func(c *Config, o sweep.Objective) {
			c.MOO.F2 = o
		}),
		intRule(`\Ancaps[\s=]+(\d+)`, func(c *Config, v int) { c.MOO.NCaps = &v }),
		floatRule(`\Ac[\s=]+([.\d]+)`, func(c *Config, v float64) { c.MOO.C = &v }),
		enterRule(`\A\}`, modeDefault),
	},
	modeMGPA: {
		floatRule(`\Aslack1[\s=]+([.\d]+)`, func(c *Config, v float64) { c.MGPA.Slack1 = &v }),
		floatRule(`\Aslack2[\s=]+([.\d]+)`, func(c *Config, v float64) { c.MGPA.Slack2 = &v }),
		intRule(`\Aiteration[\s=]+(\d+)`, func(c *Config, v int) { c.MGPA.Iterations = &v }),
		methodRule(`\Amethod[\s=]+(integer|normalized|random)\b`, func(c *Config, m sweep.Method) {
			c.MGPA.Method = m
		}),
		objectiveRule(`\Af1[\s=]+(cost|emissions|energySR|materialSR)\b`, func(c *Config, o sweep.Objective) {
			c.MGPA.F1 = o
		}),
		objectiveRule(`\Af2[\s=]+(cost|emissions|energySR|materialSR)\b`, func(c *Config, o sweep.Objective) {
			c.MGPA.F2 = o
		}),
		intRule(`\Ancaps[\s=]+(\d+)`, func(c *Config, v int) { c.MGPA.NCaps = &v }),
		floatRule(`\Ac[\s=]+([.\d]+)`, func(c *Config, v float64) { c.MGPA.C = &v }),
		enterRule(`\A\}`, modeDefault),
	},
}
