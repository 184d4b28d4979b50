package harness

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLauncher drops an executable stub with the given name into a fresh
// directory and points PATH at it for the duration of the test.
func fakeLauncher(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0755))
	}
	t.Setenv("PATH", dir)
	return dir
}

func TestResolveCommandDirect(t *testing.T) {
	cmd, err := ResolveCommand("/opt/student/server")
	require.NoError(t, err)
	assert.Equal(t, "/opt/student/server", cmd.Path)
	assert.Empty(t, cmd.Args)
	assert.Equal(t, "/opt/student/server", cmd.String())
}

func TestResolveCommandPython(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing is unix-specific")
	}
	dir := fakeLauncher(t, "python3")

	cmd, err := ResolveCommand("/opt/student/server.py")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "python3"), cmd.Path)
	assert.Equal(t, []string{"/opt/student/server.py"}, cmd.Args)
}

func TestResolveCommandPythonFallback(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing is unix-specific")
	}
	// Only the legacy name is present.
	dir := fakeLauncher(t, "python")

	cmd, err := ResolveCommand("client.py")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "python"), cmd.Path)
}

func TestResolveCommandJar(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing is unix-specific")
	}
	dir := fakeLauncher(t, "java")

	cmd, err := ResolveCommand("/opt/student/Server.jar")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "java"), cmd.Path)
	assert.Equal(t, []string{"-jar", "/opt/student/Server.jar"}, cmd.Args)
}

func TestResolveCommandClass(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing is unix-specific")
	}
	fakeLauncher(t, "java")

	cmd, err := ResolveCommand("/opt/student/Server.class")
	require.NoError(t, err)
	assert.Equal(t, []string{"-cp", "/opt/student", "Server"}, cmd.Args)
}

func TestResolveCommandNode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing is unix-specific")
	}
	dir := fakeLauncher(t, "node")

	cmd, err := ResolveCommand("app.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "node"), cmd.Path)
	assert.Equal(t, []string{"app.js"}, cmd.Args)
}

func TestResolveCommandMissingLauncher(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing is unix-specific")
	}
	t.Setenv("PATH", t.TempDir())

	_, err := ResolveCommand("server.py")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launcher not found on PATH")
	assert.Contains(t, err.Error(), "python3")
}

func TestCommandString(t *testing.T) {
	cmd := Command{Path: "/usr/bin/java", Args: []string{"-jar", "app.jar"}}
	assert.Equal(t, "/usr/bin/java -jar app.jar", cmd.String())
}
