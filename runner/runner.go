// Package runner drives the suite: one process pair per discovered test
// case, strictly serial, scored by transcript diff.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/harness"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/logging"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/metrics"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/registry"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/reporting"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/transcript"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/types"
)

// SuiteRunner defines the interface for running a grading suite.
type SuiteRunner interface {
	Run(ctx context.Context) (*reporting.Report, error)
	Abort()
}

var _ SuiteRunner = (*runner)(nil)

// Config holds configuration for creating a new runner.
type Config struct {
	Registry       *registry.Registry
	ClientArtifact string
	ServerArtifact string
	Log            log.Logger
	FileLogger     *logging.FileLogger
	Sink           harness.OutputSink

	SettleDelay time.Duration
	StepDelay   time.Duration
	DrainGrace  time.Duration
}

type runner struct {
	cfg        Config
	normalizer transcript.Normalizer
	runID      string

	mu      sync.Mutex
	current *harness.Pair
	aborted bool
}

// NewRunner validates the configuration and checks the one fatal
// precondition: both student artifacts must exist before any case runs.
func NewRunner(cfg Config) (SuiteRunner, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}
	for _, artifact := range []string{cfg.ClientArtifact, cfg.ServerArtifact} {
		if artifact == "" {
			return nil, fmt.Errorf("client and server artifacts are required")
		}
		if _, err := os.Stat(artifact); err != nil {
			return nil, fmt.Errorf("artifact does not exist: %s", artifact)
		}
	}

	runID := uuid.New().String()
	if cfg.FileLogger != nil {
		runID = cfg.FileLogger.RunID()
	}

	opts := cfg.Registry.Options()
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = opts.SettleDelay.Std(harness.DefaultSettleDelay)
	}
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = opts.StepDelay.Std(harness.DefaultStepDelay)
	}
	if cfg.DrainGrace <= 0 {
		cfg.DrainGrace = opts.DrainGrace.Std(harness.DefaultDrainGrace)
	}

	return &runner{
		cfg:        cfg,
		normalizer: cfg.Registry.Normalizer(),
		runID:      runID,
	}, nil
}

// Run grades every discovered case sequentially. Cases share no live
// resources, but serializing keeps output deterministic and readable. The
// returned report always covers every attempted case, including failures
// and an aborted case.
func (r *runner) Run(ctx context.Context) (*reporting.Report, error) {
	cases := r.cfg.Registry.Cases()
	if len(cases) == 0 {
		return nil, fmt.Errorf("no valid test cases found")
	}
	r.cfg.Log.Info("Starting grading run", "run_id", r.runID, "cases", len(cases))

	report := reporting.NewReport(r.runID)
	for _, tc := range cases {
		if r.isAborted() || ctx.Err() != nil {
			r.cfg.Log.Warn("Run aborted, skipping remaining cases", "case", tc.Name)
			break
		}

		r.logLine(fmt.Sprintf("Running test case: %s", tc.Name))
		result := r.runCase(ctx, tc)
		report.Add(result)
		metrics.RecordCase(r.runID, tc.Name, string(result.Status), result.PointsAwarded)

		if result.Passed() {
			r.logLine(fmt.Sprintf("Test case %s passed. Awarded %d points.", tc.Name, result.PointsAwarded))
		} else {
			r.logLine(fmt.Sprintf("Test case %s failed. Reason: %s", tc.Name, result.Reason))
		}
	}
	report.Finish()

	metrics.RecordSuite(r.runID, report.PointsAwarded(), report.PointsAvailable(), report.Duration())
	r.cfg.Log.Info("Grading run completed",
		"run_id", r.runID,
		"awarded", report.PointsAwarded(),
		"available", report.PointsAvailable(),
		"duration", report.Duration())
	return report, nil
}

// runCase runs one case with a fresh process pair. The previous pair is
// always fully terminated before this is called; pairs are never shared.
func (r *runner) runCase(ctx context.Context, tc types.TestCase) types.CaseResult {
	start := time.Now()
	result := types.CaseResult{
		Name:            tc.Name,
		PointsAvailable: tc.Points,
	}

	pair, err := harness.NewPair(harness.Config{
		Log:            r.cfg.Log,
		ServerArtifact: r.cfg.ServerArtifact,
		ClientArtifact: r.cfg.ClientArtifact,
		SettleDelay:    r.cfg.SettleDelay,
		StepDelay:      r.cfg.StepDelay,
		DrainGrace:     r.cfg.DrainGrace,
		FileLogger:     r.cfg.FileLogger,
		Sink:           r.caseSink(tc.Name),
	})
	if err != nil {
		result.Status = types.CaseStatusStartupFailed
		result.Reason = types.TruncateReason(err.Error())
		result.Duration = time.Since(start)
		return result
	}

	r.setCurrent(pair)
	run, err := pair.Run(ctx, tc.Inputs)
	r.setCurrent(nil)
	result.Duration = time.Since(start)

	switch {
	case harness.IsStartupError(err):
		r.cfg.Log.Error("Failed to start processes", "case", tc.Name, "err", err)
		result.Status = types.CaseStatusStartupFailed
		result.Reason = types.TruncateReason(err.Error())
		return result
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		result.Status = types.CaseStatusFailed
		result.Reason = "aborted before completion"
		return result
	case err != nil:
		result.Status = types.CaseStatusFailed
		result.Reason = types.TruncateReason(err.Error())
		return result
	}

	clientDiff := transcript.Diff(tc.ExpectedClient, r.normalizer.NormalizeLines(run.ClientLines), "Client")
	serverDiff := transcript.Diff(tc.ExpectedServer, r.normalizer.NormalizeLines(run.ServerLines), "Server")

	if clientDiff == "" && serverDiff == "" {
		result.Status = types.CaseStatusPassed
		result.PointsAwarded = tc.Points
		result.Reason = "Outputs match"
		return result
	}

	var reasons []string
	if clientDiff != "" {
		reasons = append(reasons, clientDiff)
	}
	if serverDiff != "" {
		reasons = append(reasons, serverDiff)
	}
	result.Status = types.CaseStatusFailed
	result.Reason = types.TruncateReason(strings.Join(reasons, "\n"))
	return result
}

// Abort terminates the currently running pair, if any, and stops the suite
// loop. Already-recorded results are kept; the final report still covers
// every attempted case.
func (r *runner) Abort() {
	r.mu.Lock()
	r.aborted = true
	pair := r.current
	r.mu.Unlock()

	if pair != nil {
		r.cfg.Log.Warn("Aborting current test case")
		pair.Abort()
	}
}

func (r *runner) setCurrent(pair *harness.Pair) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = pair
}

func (r *runner) isAborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

func (r *runner) caseSink(caseName string) harness.OutputSink {
	return func(source, line string) {
		if r.cfg.Sink != nil {
			r.cfg.Sink(source, line)
		}
		if source == "input" {
			r.logLine(fmt.Sprintf("[%s Input] %s", caseName, line))
		} else {
			r.logLine(line)
		}
	}
}

func (r *runner) logLine(line string) {
	if r.cfg.FileLogger != nil {
		r.cfg.FileLogger.LogLine(line)
	}
}
