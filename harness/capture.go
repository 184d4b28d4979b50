package harness

import (
	"bufio"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/logging"
)

const capturerBufferSize = 1024 * 1024

// OutputSink receives every captured output line and every control message,
// labeled with its source, for live viewing.
type OutputSink func(source, line string)

// Capturer drains one process's combined output stream line by line,
// appending to a durable transcript file and a live sink. It is the one
// intentionally blocking reader in the system: it never errors past its
// own boundary, and a read failure or closed pipe simply ends the capture.
type Capturer struct {
	source string
	reader io.Reader
	file   *logging.TranscriptFile
	sink   OutputSink
	log    log.Logger

	mu    sync.Mutex
	lines []string
	done  chan struct{}
}

// NewCapturer creates a capturer for one process stream. The transcript
// file and sink may be nil; captured lines are always retained in memory.
func NewCapturer(source string, reader io.Reader, file *logging.TranscriptFile, sink OutputSink, logger log.Logger) *Capturer {
	if logger == nil {
		logger = log.Root()
	}
	return &Capturer{
		source: source,
		reader: reader,
		file:   file,
		sink:   sink,
		log:    logger,
		done:   make(chan struct{}),
	}
}

// Start launches the capture loop as a background task.
func (c *Capturer) Start() {
	go c.run()
}

func (c *Capturer) run() {
	defer close(c.done)

	scanner := bufio.NewScanner(c.reader)
	scanner.Buffer(make([]byte, 0, 64*1024), capturerBufferSize)

	for scanner.Scan() {
		// Terminator normalization at capture time; full comparison
		// normalization happens at diff time.
		line := strings.TrimRight(scanner.Text(), "\r")

		c.mu.Lock()
		c.lines = append(c.lines, line)
		c.mu.Unlock()

		if c.file != nil {
			if err := c.file.AppendLine(line); err != nil {
				c.log.Warn("Transcript append failed", "source", c.source, "err", err)
			}
		}
		if c.sink != nil {
			c.sink(c.source, line)
		}
	}

	// A scanner error means the pipe closed under us; the producer is
	// done either way, so no retry.
	if err := scanner.Err(); err != nil {
		c.log.Debug("Capture stream ended with error", "source", c.source, "err", err)
	}
}

// Done is closed when the capture loop has exited.
func (c *Capturer) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the capture loop exits or the timeout elapses.
// It returns false when the capturer had to be abandoned.
func (c *Capturer) Wait(timeout time.Duration) bool {
	select {
	case <-c.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Lines returns a snapshot of the captured lines.
func (c *Capturer) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}
