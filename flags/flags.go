package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/harness"
)

const EnvVarPrefix = "AUTOGRADE"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	CasesDir = &cli.StringFlag{
		Name:    "cases",
		Value:   "",
		EnvVars: prefixEnvVars("CASES"),
		Usage:   "Path to the test cases folder (one subdirectory per case)",
	}
	ClientArtifact = &cli.StringFlag{
		Name:    "client",
		Value:   "",
		EnvVars: prefixEnvVars("CLIENT"),
		Usage:   "Path to the student client executable",
	}
	ServerArtifact = &cli.StringFlag{
		Name:    "server",
		Value:   "",
		EnvVars: prefixEnvVars("SERVER"),
		Usage:   "Path to the student server executable",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: prefixEnvVars("LOGDIR"),
		Usage:   "Directory to store run artifacts (transcripts, report, live log)",
	}
	SettleDelay = &cli.DurationFlag{
		Name:    "settle-delay",
		Value:   harness.DefaultSettleDelay,
		EnvVars: prefixEnvVars("SETTLE_DELAY"),
		Usage:   "Wait after starting the server before starting the client",
	}
	StepDelay = &cli.DurationFlag{
		Name:    "step-delay",
		Value:   harness.DefaultStepDelay,
		EnvVars: prefixEnvVars("STEP_DELAY"),
		Usage:   "Pacing between scripted inputs",
	}
	DrainGrace = &cli.DurationFlag{
		Name:    "drain-grace",
		Value:   harness.DefaultDrainGrace,
		EnvVars: prefixEnvVars("DRAIN_GRACE"),
		Usage:   "Wait after the last input before terminating still-live processes",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (debug, info, warn, error)",
	}
)

var requiredFlags = []cli.Flag{
	CasesDir,
	ClientArtifact,
	ServerArtifact,
}

var optionalFlags = []cli.Flag{
	LogDir,
	SettleDelay,
	StepDelay,
	DrainGrace,
	LogLevel,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
