package runcfg

import (
	"fmt"
	"strings"
)

// ErrorSpan is one accumulated region of illegal input.
//
// Line and offset ranges are inclusive. Offsets are byte offsets from
// the start of the configuration text. Spans are created only during
// lexing: single illegal bytes at contiguous offsets extend the previous
// span; any gap starts a new one.
type ErrorSpan struct {
	LineStart   int
	LineEnd     int
	OffsetStart int
	OffsetEnd   int
	Text        string
}

// String formats the span as one diagnostic log line.
func (e ErrorSpan) String() string {
	return fmt.Sprintf("Line %d to %d: '%s'", e.LineStart, e.LineEnd, e.Text)
}

// reportRuleWidth is the width of the horizontal rules in the
// consolidated diagnostic report.
const reportRuleWidth = 25

// Report renders the consolidated human-readable diagnostic for a set
// of accumulated spans. The exact layout is a compatibility contract
// with existing log tooling:
//
//	Illegal character(s) in config file:
//	-------------------------
//	Line <a> to <b>: '<text>'
//	-------------------------
//
// Returns the empty string when no spans were accumulated.
func Report(spans []ErrorSpan) string {
	if len(spans) == 0 {
		return ""
	}
	rule := strings.Repeat("-", reportRuleWidth) + "\n"

	var b strings.Builder
	b.WriteString("Illegal character(s) in config file:\n")
	b.WriteString(rule)
	for _, s := range spans {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	b.WriteString(rule)
	return b.String()
}
