package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/logging"
)

// Default timing heuristics. The child processes expose no readiness or
// acknowledgment protocol, so ordering plus generous waits is the whole
// synchronization contract. The magnitudes must stay close to those used
// when golden transcripts were recorded.
const (
	DefaultSettleDelay  = 1200 * time.Millisecond
	DefaultStepDelay    = 500 * time.Millisecond
	DefaultDrainGrace   = 3 * time.Second
	DefaultShutdownWait = 3 * time.Second
	DefaultCapturerJoin = 5 * time.Second
)

// Default transcript filenames within the run directory.
const (
	ClientTranscriptFilename = "student_client_record.txt"
	ServerTranscriptFilename = "student_server_record.txt"
)

// State tracks the lifecycle of a process pair for one test case.
type State int32

const (
	StateIdle State = iota
	StateServerStarting
	StateClientStarting
	StateRunning
	StateDraining
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateServerStarting:
		return "server_starting"
	case StateClientStarting:
		return "client_starting"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// Config holds the configuration for one process pair.
type Config struct {
	Log log.Logger

	// ServerArtifact and ClientArtifact are the launch specifications;
	// runtime launchers are resolved at start time.
	ServerArtifact string
	ClientArtifact string

	SettleDelay  time.Duration // wait after server start before client start
	StepDelay    time.Duration // pacing between scripted inputs
	DrainGrace   time.Duration // wait after input exhaustion before termination
	ShutdownWait time.Duration // SIGTERM to SIGKILL escalation bound
	CapturerJoin time.Duration // bounded join for capturer tasks

	// FileLogger provides durable transcript files; may be nil, in which
	// case transcripts are kept in memory only.
	FileLogger *logging.FileLogger
	Sink       OutputSink
}

func (c *Config) applyDefaults() {
	if c.Log == nil {
		c.Log = log.Root()
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.StepDelay <= 0 {
		c.StepDelay = DefaultStepDelay
	}
	if c.DrainGrace <= 0 {
		c.DrainGrace = DefaultDrainGrace
	}
	if c.ShutdownWait <= 0 {
		c.ShutdownWait = DefaultShutdownWait
	}
	if c.CapturerJoin <= 0 {
		c.CapturerJoin = DefaultCapturerJoin
	}
}

// Result carries the captured transcripts of a completed (or aborted) run.
type Result struct {
	ClientLines []string
	ServerLines []string

	// Transcript paths are empty when no FileLogger was configured.
	ClientTranscriptPath string
	ServerTranscriptPath string
}

// Pair owns the lifecycle of exactly one client and one server process for
// a single test case. A Pair is single-use: Run may be called once, and a
// previous pair must be fully terminated before a new one starts.
type Pair struct {
	cfg   Config
	state atomic.Int32

	abortOnce sync.Once
	abort     chan struct{}
}

// NewPair creates a controller for one test case.
func NewPair(cfg Config) (*Pair, error) {
	if cfg.ServerArtifact == "" {
		return nil, fmt.Errorf("server artifact is required")
	}
	if cfg.ClientArtifact == "" {
		return nil, fmt.Errorf("client artifact is required")
	}
	cfg.applyDefaults()
	return &Pair{
		cfg:   cfg,
		abort: make(chan struct{}),
	}, nil
}

// State returns the controller's current lifecycle state.
func (p *Pair) State() State {
	return State(p.state.Load())
}

func (p *Pair) setState(s State) {
	p.cfg.Log.Debug("Process pair state", "state", s.String())
	p.state.Store(int32(s))
}

// Abort requests termination of both processes from any state. It is safe
// to call concurrently with Run and more than once.
func (p *Pair) Abort() {
	p.abortOnce.Do(func() { close(p.abort) })
}

// Run drives one full case: start server, settle, start client, capture
// both output streams, feed the scripted inputs, drain, terminate and tear
// down. On return the pair is Terminated regardless of outcome. A
// *StartupError is returned when either process cannot be launched; a
// context error is returned when the run was aborted mid-case, with
// whatever output was captured up to that point in the Result.
func (p *Pair) Run(ctx context.Context, inputs []string) (*Result, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-p.abort:
			cancel()
		case <-runCtx.Done():
		}
	}()

	var server, client *process
	defer func() {
		// Reached on every exit path, including startup failures:
		// leaves both handles released and the pair Terminated.
		p.shutdown(server, client)
	}()

	p.setState(StateServerStarting)
	server, err := p.launch(p.cfg.ServerArtifact, "server")
	if err != nil {
		return nil, NewStartupError(fmt.Errorf("server: %w", err))
	}
	// Settle delay: no readiness handshake exists, this is a timing
	// heuristic, not a guarantee.
	if err := sleepCtx(runCtx, p.cfg.SettleDelay); err != nil {
		return nil, err
	}

	p.setState(StateClientStarting)
	client, err = p.launch(p.cfg.ClientArtifact, "client")
	if err != nil {
		return nil, NewStartupError(fmt.Errorf("client: %w", err))
	}

	p.setState(StateRunning)
	serverFile, clientFile := p.openTranscripts()
	serverCap := NewCapturer("server", server.out, serverFile, p.cfg.Sink, p.cfg.Log)
	clientCap := NewCapturer("client", client.out, clientFile, p.cfg.Sink, p.cfg.Log)
	serverCap.Start()
	clientCap.Start()

	result := &Result{}
	if clientFile != nil {
		result.ClientTranscriptPath = clientFile.Path()
	}
	if serverFile != nil {
		result.ServerTranscriptPath = serverFile.Path()
	}

	feeder := &Feeder{StepDelay: p.cfg.StepDelay, Log: p.cfg.Log, Echo: p.echoInput}
	if err := feeder.Feed(runCtx, client.stdin, inputs); err != nil {
		if runCtx.Err() != nil {
			p.collect(result, clientCap, serverCap, clientFile, serverFile)
			return result, runCtx.Err()
		}
		// Broken pipe: the client exited early. Remaining inputs are not
		// sent and scoring proceeds with whatever was captured.
		p.cfg.Log.Warn("Stopped feeding inputs early", "err", err)
	}

	p.setState(StateDraining)
	drainErr := sleepCtx(runCtx, p.cfg.DrainGrace)

	p.terminateProcess(server)
	p.terminateProcess(client)

	if !clientCap.Wait(p.cfg.CapturerJoin) {
		p.cfg.Log.Warn("Abandoning client capturer after join timeout")
	}
	if !serverCap.Wait(p.cfg.CapturerJoin) {
		p.cfg.Log.Warn("Abandoning server capturer after join timeout")
	}

	p.collect(result, clientCap, serverCap, clientFile, serverFile)

	if drainErr != nil {
		return result, drainErr
	}
	return result, nil
}

func (p *Pair) echoInput(value string) {
	if p.cfg.Sink != nil {
		p.cfg.Sink("input", value)
	}
}

func (p *Pair) openTranscripts() (server, client *logging.TranscriptFile) {
	if p.cfg.FileLogger == nil {
		return nil, nil
	}
	var err error
	if server, err = p.cfg.FileLogger.OpenTranscript(ServerTranscriptFilename); err != nil {
		p.cfg.Log.Warn("Server transcript unavailable, capturing in memory only", "err", err)
		server = nil
	}
	if client, err = p.cfg.FileLogger.OpenTranscript(ClientTranscriptFilename); err != nil {
		p.cfg.Log.Warn("Client transcript unavailable, capturing in memory only", "err", err)
		client = nil
	}
	return server, client
}

func (p *Pair) collect(result *Result, clientCap, serverCap *Capturer, clientFile, serverFile *logging.TranscriptFile) {
	result.ClientLines = clientCap.Lines()
	result.ServerLines = serverCap.Lines()
	if clientFile != nil {
		_ = clientFile.Close()
	}
	if serverFile != nil {
		_ = serverFile.Close()
	}
}

// process wraps one OS process with its writable input stream, readable
// combined output stream and exit notification.
type process struct {
	label  string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	out    *os.File
	exited chan struct{}
}

// launch resolves the artifact's launcher and starts the process with
// stdout and stderr merged into a single pipe.
func (p *Pair) launch(artifact, label string) (*process, error) {
	command, err := ResolveCommand(artifact)
	if err != nil {
		return nil, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating output pipe: %w", err)
	}

	cmd := exec.Command(command.Path, command.Args...)
	cmd.Stdout = pw
	cmd.Stderr = pw

	stdin, err := cmd.StdinPipe()
	if err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("creating stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("spawning %s: %w", command.String(), err)
	}
	// The child holds the write end now; closing the parent's copy lets
	// the capturer see EOF when the child exits.
	pw.Close()

	proc := &process{
		label:  label,
		cmd:    cmd,
		stdin:  stdin,
		out:    pr,
		exited: make(chan struct{}),
	}
	go func() {
		_ = cmd.Wait()
		close(proc.exited)
	}()

	p.cfg.Log.Info("Started process", "process", label, "command", command.String(), "pid", cmd.Process.Pid)
	return proc, nil
}

func (pr *process) alive() bool {
	select {
	case <-pr.exited:
		return false
	default:
		return true
	}
}

// terminateProcess sends SIGTERM to a still-live process and escalates to
// SIGKILL after the shutdown wait. A process that already exited normally
// is left alone.
func (p *Pair) terminateProcess(pr *process) {
	if pr == nil || !pr.alive() {
		return
	}
	p.cfg.Log.Info("Terminating process", "process", pr.label)
	if err := pr.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		p.cfg.Log.Debug("SIGTERM failed", "process", pr.label, "err", err)
	}
	select {
	case <-pr.exited:
		return
	case <-time.After(p.cfg.ShutdownWait):
	}

	p.cfg.Log.Warn("Process did not exit within grace period, killing", "process", pr.label)
	_ = pr.cmd.Process.Kill()
	select {
	case <-pr.exited:
	case <-time.After(p.cfg.ShutdownWait):
		p.cfg.Log.Error("Process unreaped after kill", "process", pr.label)
	}
}

// shutdown releases both process handles and marks the pair Terminated.
func (p *Pair) shutdown(server, client *process) {
	for _, pr := range []*process{client, server} {
		if pr == nil {
			continue
		}
		p.terminateProcess(pr)
		_ = pr.stdin.Close()
		_ = pr.out.Close()
	}
	p.setState(StateTerminated)
}
