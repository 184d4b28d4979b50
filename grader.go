// Package grader wires discovery, the process-pair harness and reporting
// into the grading service behind the CLI.
package grader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/logging"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/registry"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/reporting"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/runner"
)

// Grader grades one student client/server pair against a suite of recorded
// test cases and produces a report.
type Grader struct {
	config     *Config
	version    string
	registry   *registry.Registry
	runner     runner.SuiteRunner
	fileLogger *logging.FileLogger

	running atomic.Bool
}

// New creates a Grader: discovers the test cases, prepares the run
// directory and builds the suite runner.
func New(ctx context.Context, config *Config, version string) (*Grader, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating grader with config",
		"casesDir", config.CasesDir,
		"clientArtifact", config.ClientArtifact,
		"serverArtifact", config.ServerArtifact,
		"logDir", config.LogDir)

	reg, err := registry.NewRegistry(registry.Config{
		Log:      config.Log,
		CasesDir: config.CasesDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}
	if len(reg.Cases()) == 0 {
		return nil, fmt.Errorf("no valid test cases found in %s", config.CasesDir)
	}

	runID := uuid.New().String()
	fileLogger, err := logging.NewFileLogger(config.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}

	suiteRunner, err := runner.NewRunner(runner.Config{
		Registry:       reg,
		ClientArtifact: config.ClientArtifact,
		ServerArtifact: config.ServerArtifact,
		Log:            config.Log,
		FileLogger:     fileLogger,
		SettleDelay:    config.SettleDelay,
		StepDelay:      config.StepDelay,
		DrainGrace:     config.DrainGrace,
	})
	if err != nil {
		_ = fileLogger.Close()
		return nil, fmt.Errorf("failed to create suite runner: %w", err)
	}

	config.Log.Info("Discovered test cases",
		"cases", len(reg.Cases()),
		"totalPoints", reg.TotalPoints(),
		"run_id", runID)

	return &Grader{
		config:     config,
		version:    version,
		registry:   reg,
		runner:     suiteRunner,
		fileLogger: fileLogger,
	}, nil
}

// Run grades the whole suite once, prints the results table, writes the
// report artifacts and maps the outcome onto the error taxonomy: nil when
// every case passed, GradingFailureError when any case failed,
// RuntimeError when grading could not run at all.
func (g *Grader) Run(ctx context.Context) error {
	g.running.Store(true)
	defer g.running.Store(false)
	defer func() {
		_ = g.fileLogger.Close()
	}()

	report, err := g.runner.Run(ctx)
	if err != nil {
		g.config.Log.Error("Runtime error running suite", "err", err)
		return NewRuntimeError(err)
	}

	if err := g.publish(report); err != nil {
		g.config.Log.Error("Failed to write report artifacts", "err", err)
		return NewRuntimeError(err)
	}

	fmt.Println(report.String())
	if !report.AllPassed() {
		return NewGradingFailureError(report.String())
	}
	return nil
}

// publish renders the results table to the terminal and writes the
// summary and CSV artifacts into the run directory.
func (g *Grader) publish(report *reporting.Report) error {
	tableText := report.Table("Auto Grading Results")
	fmt.Fprintln(os.Stdout, tableText)

	if _, err := g.fileLogger.WriteFile(logging.SummaryFilename, tableText+"\n"+report.String()+"\n"); err != nil {
		return err
	}

	csvText, err := report.CSV()
	if err != nil {
		return fmt.Errorf("failed to render CSV report: %w", err)
	}
	csvPath, err := g.fileLogger.WriteFile(reporting.CSVFilename(time.Now()), csvText)
	if err != nil {
		return err
	}

	g.config.Log.Info("Results saved", "path", csvPath, "run_dir", g.fileLogger.RunDir())
	return nil
}

// Abort ends the current processes and stops the suite. It may be called
// at any time while Run is in flight; prior case results are preserved and
// the final report is still produced.
func (g *Grader) Abort() {
	g.config.Log.Warn("Ending all current processes")
	g.runner.Abort()
}

// Running reports whether a grading run is in flight.
func (g *Grader) Running() bool {
	return g.running.Load()
}
