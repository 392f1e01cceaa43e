// Package harness runs YAML-driven conformance scenarios against the
// configuration pipeline: lex a config text, check the resulting
// record and illegal-input spans, and check the expanded scenario
// queues. The same scenarios back both `go test` and `ember test`, so
// driver authors can pin the parsing behavior they depend on without
// writing Go.
package harness
