// Package logging handles the durable artifacts of a grading run: the live
// combined log, per-case transcript files and the summary/report files.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// RunDirectoryPrefix is the standardized prefix for run directories.
	RunDirectoryPrefix = "testrun-"

	RunLogFilename  = "run.log"
	SummaryFilename = "summary.log"
)

// FileLogger owns the directory tree for one grading run. A single
// process-wide lock serializes all file writes: transcript appends from the
// two capturers may interleave with report and control-message writes on
// the same tree.
type FileLogger struct {
	baseDir string
	runDir  string
	runID   string

	mu     sync.Mutex
	runLog *os.File
	closed bool
}

// NewFileLogger creates the run directory and opens the live run log.
func NewFileLogger(baseDir, runID string) (*FileLogger, error) {
	runDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", runDir, err)
	}

	runLog, err := os.Create(filepath.Join(runDir, RunLogFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to create run log: %w", err)
	}

	return &FileLogger{
		baseDir: baseDir,
		runDir:  runDir,
		runID:   runID,
		runLog:  runLog,
	}, nil
}

// RunID returns the run identifier this logger was created for.
func (l *FileLogger) RunID() string { return l.runID }

// RunDir returns the directory holding this run's artifacts.
func (l *FileLogger) RunDir() string { return l.runDir }

// LogLine appends one line to the live run log. Errors are swallowed; the
// live log is best-effort and must never fail a grading run.
func (l *FileLogger) LogLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	_, _ = l.runLog.WriteString(line + "\n")
}

// OpenTranscript creates (truncating) a transcript file in the run
// directory and returns a handle whose appends share the global write lock.
func (l *FileLogger) OpenTranscript(name string) (*TranscriptFile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := filepath.Join(l.runDir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript %s: %w", path, err)
	}
	return &TranscriptFile{path: path, file: f, logger: l}, nil
}

// WriteFile writes a whole artifact (summary, report) into the run
// directory under the global write lock.
func (l *FileLogger) WriteFile(name, content string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	path := filepath.Join(l.runDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Close flushes and closes the live run log.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.runLog.Close()
}

// TranscriptFile is an append-only transcript owned by exactly one output
// capturer. The file grows monotonically during a run; after the capturer
// exits no more appends occur.
type TranscriptFile struct {
	path   string
	logger *FileLogger

	file   *os.File
	closed bool
}

// Path returns the transcript's location on disk.
func (t *TranscriptFile) Path() string { return t.path }

// AppendLine appends one line and flushes immediately so the on-disk
// transcript tracks the live process even if the harness dies mid-case.
func (t *TranscriptFile) AppendLine(line string) error {
	t.logger.mu.Lock()
	defer t.logger.mu.Unlock()
	if t.closed {
		return fmt.Errorf("transcript %s is closed", t.path)
	}
	if _, err := t.file.WriteString(line + "\n"); err != nil {
		return err
	}
	return t.file.Sync()
}

// Close closes the underlying file. Further appends fail.
func (t *TranscriptFile) Close() error {
	t.logger.mu.Lock()
	defer t.logger.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.file.Close()
}
