// Package runcfg parses the run-configuration language for Ember.
//
// The language is a flat list of `--directive` tokens with optional
// values (`=` and whitespace are interchangeable separators), `#` line
// comments, and up to three single-level sweep blocks of the form
// `--<technique> { key value ... }`. Each sweep block switches the
// lexer into an exclusive mode that recognizes only that technique's
// keys until the closing brace.
//
// Parsing is tolerant by contract: malformed bytes never abort the
// pass. Each illegal byte is skipped and recorded, and contiguous
// illegal bytes merge into a single ErrorSpan so that one garbled word
// produces one diagnostic line, not twenty.
//
// The lexer is an explicit finite-state tokenizer: a mode enum, a
// per-mode ordered table of anchored patterns, and a byte cursor. No
// token stream is retained; directives mutate the Config directly as
// they are recognized.
package runcfg
