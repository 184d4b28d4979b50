package grader

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/logging"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/registry"
)

// gradingFixture lays out a complete suite on disk: echo-style scripts
// plus one recorded case whose goldens are controlled by the caller.
func gradingFixture(t *testing.T, clientGolden, serverGolden string) *Config {
	t.Helper()
	dir := t.TempDir()

	server := filepath.Join(dir, "server")
	require.NoError(t, os.WriteFile(server, []byte("#!/bin/sh\necho \"server up\"\nexec sleep 30\n"), 0755))
	client := filepath.Join(dir, "client")
	require.NoError(t, os.WriteFile(client, []byte("#!/bin/sh\nwhile read line; do\n  echo \"client got $line\"\ndone\n"), 0755))

	caseDir := filepath.Join(dir, "cases", "tc_echo", registry.RecordDirname)
	require.NoError(t, os.MkdirAll(caseDir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "cases", "tc_echo", registry.ManifestFilename),
		[]byte(`{"inputs":["1"],"points":10}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(caseDir, registry.ClientRecordFilename), []byte(clientGolden), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(caseDir, registry.ServerRecordFilename), []byte(serverGolden), 0644))

	return &Config{
		CasesDir:       filepath.Join(dir, "cases"),
		ClientArtifact: client,
		ServerArtifact: server,
		LogDir:         filepath.Join(dir, "logs"),
		SettleDelay:    50 * time.Millisecond,
		StepDelay:      20 * time.Millisecond,
		DrainGrace:     200 * time.Millisecond,
		Log:            log.Root(),
	}
}

func TestGraderRunAllPass(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are unix-specific")
	}
	cfg := gradingFixture(t, "client got 1\n", "server up\n")

	g, err := New(context.Background(), cfg, "test")
	require.NoError(t, err)
	assert.False(t, g.Running())

	require.NoError(t, g.Run(context.Background()))

	// One run directory with the live log, summary and CSV report.
	entries, err := os.ReadDir(cfg.LogDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	runDir := filepath.Join(cfg.LogDir, entries[0].Name())

	assert.FileExists(t, filepath.Join(runDir, logging.RunLogFilename))

	summary, err := os.ReadFile(filepath.Join(runDir, logging.SummaryFilename))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "tc_echo")
	assert.Contains(t, string(summary), "Total points: 10 / 10")

	csvs, err := filepath.Glob(filepath.Join(runDir, "test_results_*.csv"))
	require.NoError(t, err)
	require.Len(t, csvs, 1)
}

func TestGraderRunGradingFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are unix-specific")
	}
	cfg := gradingFixture(t, "client got 1\nclient got bonus\n", "server up\n")

	g, err := New(context.Background(), cfg, "test")
	require.NoError(t, err)

	err = g.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsGradingFailureError(err))
	assert.False(t, IsRuntimeError(err))

	// The report artifacts exist even though grading failed.
	entries, readErr := os.ReadDir(cfg.LogDir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
}

func TestGraderNewRejectsEmptySuite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cases"), 0755))
	client := filepath.Join(dir, "client")
	server := filepath.Join(dir, "server")
	require.NoError(t, os.WriteFile(client, []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(server, []byte("#!/bin/sh\n"), 0755))

	cfg := &Config{
		CasesDir:       filepath.Join(dir, "cases"),
		ClientArtifact: client,
		ServerArtifact: server,
		LogDir:         filepath.Join(dir, "logs"),
		Log:            log.Root(),
	}
	_, err := New(context.Background(), cfg, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid test cases")
}

func TestGraderNewRejectsNilConfig(t *testing.T) {
	_, err := New(context.Background(), nil, "test")
	require.Error(t, err)
}
