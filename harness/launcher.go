package harness

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command is an opaque launchable specification for a student artifact.
type Command struct {
	Path string
	Args []string
}

// String renders the command the way it would appear on a shell line.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// ResolveCommand turns an artifact path into a launchable command. Native
// executables run directly; artifacts that need a managed runtime get the
// launcher resolved from PATH and prepended. A launcher that cannot be
// located is a startup failure for the case, not a crash.
func ResolveCommand(artifact string) (Command, error) {
	switch strings.ToLower(filepath.Ext(artifact)) {
	case ".py":
		launcher, err := lookPathAny("python3", "python")
		if err != nil {
			return Command{}, err
		}
		return Command{Path: launcher, Args: []string{artifact}}, nil
	case ".jar":
		launcher, err := lookPathAny("java")
		if err != nil {
			return Command{}, err
		}
		return Command{Path: launcher, Args: []string{"-jar", artifact}}, nil
	case ".class":
		launcher, err := lookPathAny("java")
		if err != nil {
			return Command{}, err
		}
		dir := filepath.Dir(artifact)
		class := strings.TrimSuffix(filepath.Base(artifact), ".class")
		return Command{Path: launcher, Args: []string{"-cp", dir, class}}, nil
	case ".js":
		launcher, err := lookPathAny("node")
		if err != nil {
			return Command{}, err
		}
		return Command{Path: launcher, Args: []string{artifact}}, nil
	default:
		return Command{Path: artifact}, nil
	}
}

func lookPathAny(names ...string) (string, error) {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("launcher not found on PATH (tried %s)", strings.Join(names, ", "))
}
