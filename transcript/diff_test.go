package transcript

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/types"
)

func TestDiffReflexivity(t *testing.T) {
	transcripts := [][]string{
		nil,
		{},
		{"single"},
		{"one", "two", "three"},
	}
	for _, tr := range transcripts {
		assert.Empty(t, Diff(tr, tr, "Client"))
	}
}

func TestDiffDetectionSymmetry(t *testing.T) {
	a := []string{"one", "two"}
	b := []string{"one", "two", "three"}

	// Content differs between directions, but detection must agree.
	assert.NotEmpty(t, Diff(a, b, "Client"))
	assert.NotEmpty(t, Diff(b, a, "Client"))

	c := []string{"one", "two"}
	assert.Empty(t, Diff(a, c, "Client"))
	assert.Empty(t, Diff(c, a, "Client"))
}

func TestDiffLabelPrefix(t *testing.T) {
	got := Diff([]string{"expected line"}, []string{"actual line"}, "Server")
	require.NotEmpty(t, got)
	assert.True(t, strings.HasPrefix(got, "Server mismatch:\n"), "got: %q", got)
	assert.Contains(t, got, "-expected line")
	assert.Contains(t, got, "+actual line")
	assert.Contains(t, got, "--- expected")
	assert.Contains(t, got, "+++ actual")
}

func TestDiffTruncation(t *testing.T) {
	var expected, actual []string
	for i := 0; i < 500; i++ {
		expected = append(expected, fmt.Sprintf("expected line %d with some padding text", i))
		actual = append(actual, fmt.Sprintf("actual line %d with some padding text", i))
	}

	got := Diff(expected, actual, "Client")
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), types.MaxReasonLength)
}

func TestDiffMissingTrailingOutput(t *testing.T) {
	// Client exited early: captured transcript is a prefix of the golden.
	expected := []string{"stage 1 ok", "stage 2 ok", "stage 3 ok"}
	actual := []string{"stage 1 ok"}

	got := Diff(expected, actual, "Client")
	require.NotEmpty(t, got)
	assert.Contains(t, got, "-stage 2 ok")
	assert.Contains(t, got, "-stage 3 ok")
}
