package grader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/flags"
)

// Config holds the application configuration.
type Config struct {
	CasesDir       string // Directory holding per-case subdirectories
	ClientArtifact string // Student client launch specification
	ServerArtifact string // Student server launch specification
	LogDir         string // Directory to store run artifacts

	SettleDelay time.Duration // Wait after server start before client start
	StepDelay   time.Duration // Pacing between scripted inputs
	DrainGrace  time.Duration // Wait after input exhaustion before termination

	Log log.Logger
}

// NewConfig creates a new Config from the cli context. The fatal
// precondition lives here: both student artifacts must exist before any
// case runs, otherwise the whole run aborts with zero cases scored.
func NewConfig(ctx *cli.Context, logger log.Logger, casesDir, clientArtifact, serverArtifact string) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	if casesDir == "" {
		return nil, errors.New("test cases directory is required")
	}
	if clientArtifact == "" || serverArtifact == "" {
		return nil, errors.New("client and server artifacts are required")
	}

	absCasesDir, err := filepath.Abs(casesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for cases directory '%s': %w", casesDir, err)
	}
	if info, err := os.Stat(absCasesDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("cases directory does not exist: %s", absCasesDir)
	}

	for _, artifact := range []string{clientArtifact, serverArtifact} {
		if _, err := os.Stat(artifact); err != nil {
			return nil, fmt.Errorf("selected executable file does not exist: %s", artifact)
		}
	}

	logDir := ctx.String(flags.LogDir.Name)
	if logDir == "" {
		logDir = "logs"
	}
	logDir, err = filepath.Abs(logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
	}

	return &Config{
		CasesDir:       absCasesDir,
		ClientArtifact: clientArtifact,
		ServerArtifact: serverArtifact,
		LogDir:         logDir,
		SettleDelay:    ctx.Duration(flags.SettleDelay.Name),
		StepDelay:      ctx.Duration(flags.StepDelay.Name),
		DrainGrace:     ctx.Duration(flags.DrainGrace.Name),
		Log:            logger,
	}, nil
}
