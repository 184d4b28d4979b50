package transcript

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/types"
)

const diffContextLines = 3

// Diff compares two normalized transcripts. It returns "" when the
// sequences are element-wise equal, otherwise a unified diff prefixed with
// the label and truncated to the result reason bound. Matching is exact
// after normalization, never fuzzy.
func Diff(expected, actual []string, label string) string {
	if equal(expected, actual) {
		return ""
	}

	ud := difflib.UnifiedDiff{
		A:        terminated(expected),
		B:        terminated(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  diffContextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		// GetUnifiedDiffString only fails on writer errors, which cannot
		// happen with the in-memory buffer it uses. Keep a readable reason
		// anyway rather than dropping the mismatch.
		text = fmt.Sprintf("diff unavailable: %v", err)
	}
	return types.TruncateReason(fmt.Sprintf("%s mismatch:\n%s", label, text))
}

func equal(a, b []string) bool {
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

func terminated(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.HasSuffix(line, "\n") {
			out[i] = line
		} else {
			out[i] = line + "\n"
		}
	}
	return out
}
