package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	grader "github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/exitcodes"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/flags"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "autograde"
	app.Usage = "Client/Server Console Pair Grading Harness"
	app.Description = "autograde replays recorded inputs into student client/server pairs and scores their output against golden transcripts"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if grader.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.GradingFailed))
			}
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logger := newLogger(ctx.String(flags.LogLevel.Name))
	log.SetDefault(logger)

	cfg, err := grader.NewConfig(
		ctx,
		logger,
		ctx.String(flags.CasesDir.Name),
		ctx.String(flags.ClientArtifact.Name),
		ctx.String(flags.ServerArtifact.Name),
	)
	if err != nil {
		return grader.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	g, err := grader.New(ctx.Context, cfg, Version)
	if err != nil {
		return grader.NewRuntimeError(fmt.Errorf("failed to create grader: %w", err))
	}

	svc := service.New(Version, g.Running)
	svc.Start(ctx.Context)
	defer svc.Shutdown()

	// SIGINT/SIGTERM act as the "end all processes" control: terminate
	// the live pair, keep the results gathered so far.
	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-runCtx.Done()
		if g.Running() {
			g.Abort()
		}
	}()

	return g.Run(runCtx)
}

func newLogger(level string) log.Logger {
	return log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, parseLevel(level), true))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
