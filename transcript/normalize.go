// Package transcript holds the single comparison contract of the harness:
// captured process output and stored golden transcripts are both reduced to
// a canonical line sequence before diffing.
package transcript

import (
	"strings"

	"github.com/acarl005/stripansi"
)

// Normalizer converts raw captured text into a canonical ordered sequence
// of lines. The zero value is usable and strips no prompts.
type Normalizer struct {
	// Prompts are literal substrings erased wherever they occur. Console
	// programs print these with inconsistent trailing newlines, so they
	// cannot be compared reliably and are configured per suite.
	Prompts []string
}

// NewNormalizer returns a Normalizer that erases the given prompt strings.
func NewNormalizer(prompts ...string) Normalizer {
	return Normalizer{Prompts: prompts}
}

// CanonicalizeTerminators converts CRLF and lone CR line terminators to LF.
func CanonicalizeTerminators(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.ReplaceAll(raw, "\r", "\n")
}

// NormalizeLine canonicalizes a single line: ANSI escapes and configured
// prompts are erased, and interior whitespace runs collapse to single
// spaces. Returns "" for lines that are empty after normalization.
func (n Normalizer) NormalizeLine(line string) string {
	line = stripansi.Strip(line)
	for _, p := range n.Prompts {
		if p != "" {
			line = strings.ReplaceAll(line, p, "")
		}
	}
	return strings.Join(strings.Fields(line), " ")
}

// Normalize applies the full canonicalization pipeline to raw text and
// returns the resulting lines. Empty lines are dropped entirely, which
// tolerates flush artifacts and trailing blank lines. The output is
// deterministic and Normalize is idempotent.
func (n Normalizer) Normalize(raw string) []string {
	return n.NormalizeLines(strings.Split(CanonicalizeTerminators(raw), "\n"))
}

// NormalizeLines normalizes an already-split line sequence.
func (n Normalizer) NormalizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		for _, part := range strings.Split(CanonicalizeTerminators(line), "\n") {
			if norm := n.NormalizeLine(part); norm != "" {
				out = append(out, norm)
			}
		}
	}
	return out
}
