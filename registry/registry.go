// Package registry discovers test cases on disk and loads their manifests
// and golden transcripts.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/transcript"
	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/types"
)

const (
	ManifestFilename     = "meta.json"
	RecordDirname        = "record"
	ClientRecordFilename = "client_record.txt"
	ServerRecordFilename = "server_record.txt"
	SuiteOptionsFilename = "suite.yaml"
)

// Registry manages the set of discovered test cases for one suite directory.
type Registry struct {
	config     Config
	options    SuiteOptions
	normalizer transcript.Normalizer

	mu    sync.RWMutex
	cases []types.TestCase
}

// Config contains registry configuration.
type Config struct {
	Log      log.Logger
	CasesDir string
}

// NewRegistry scans the suite directory and loads every valid test case.
// A subdirectory is a valid case when it holds a manifest and both golden
// transcripts; anything else is skipped with a warning, never fatal.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.CasesDir == "" {
		return nil, fmt.Errorf("cases directory is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}

	options, err := loadSuiteOptions(filepath.Join(cfg.CasesDir, SuiteOptionsFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to load suite options: %w", err)
	}

	r := &Registry{
		config:     cfg,
		options:    options,
		normalizer: transcript.NewNormalizer(options.Prompts...),
	}
	if err := r.discoverCases(); err != nil {
		return nil, fmt.Errorf("failed to discover test cases: %w", err)
	}

	cfg.Log.Debug("Registry loaded", "len(cases)", len(r.cases), "prompts", len(options.Prompts))
	return r, nil
}

func (r *Registry) discoverCases() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := os.ReadDir(r.config.CasesDir)
	if err != nil {
		return fmt.Errorf("reading cases directory %s: %w", r.config.CasesDir, err)
	}

	var cases []types.TestCase
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		caseDir := filepath.Join(r.config.CasesDir, entry.Name())
		tc, ok := r.loadCase(entry.Name(), caseDir)
		if !ok {
			continue
		}
		cases = append(cases, tc)
	}

	// Deterministic case order regardless of directory listing order.
	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })

	r.cases = cases
	return nil
}

// loadCase loads a single case directory. Invalid cases fail closed: they
// are excluded from the run, the suite continues.
func (r *Registry) loadCase(name, dir string) (types.TestCase, bool) {
	manifestPath := filepath.Join(dir, ManifestFilename)
	clientRecord := filepath.Join(dir, RecordDirname, ClientRecordFilename)
	serverRecord := filepath.Join(dir, RecordDirname, ServerRecordFilename)

	for _, required := range []string{manifestPath, clientRecord, serverRecord} {
		if _, err := os.Stat(required); err != nil {
			r.config.Log.Debug("Skipping directory without complete case", "case", name, "missing", required)
			return types.TestCase{}, false
		}
	}

	manifest, err := loadManifest(manifestPath)
	if err != nil {
		r.config.Log.Warn("Skipping case with malformed manifest", "case", name, "err", err)
		return types.TestCase{}, false
	}

	expectedClient, err := r.loadGolden(clientRecord)
	if err != nil {
		r.config.Log.Warn("Skipping case with unreadable golden transcript", "case", name, "err", err)
		return types.TestCase{}, false
	}
	expectedServer, err := r.loadGolden(serverRecord)
	if err != nil {
		r.config.Log.Warn("Skipping case with unreadable golden transcript", "case", name, "err", err)
		return types.TestCase{}, false
	}

	return types.TestCase{
		Name:           name,
		Dir:            dir,
		Inputs:         manifest.Inputs,
		Points:         int(manifest.Points),
		ExpectedClient: expectedClient,
		ExpectedServer: expectedServer,
	}, true
}

// loadGolden reads a golden transcript and runs it through the shared
// normalizer. Goldens recorded under older terminator conventions would
// otherwise silently mismatch live captures.
func (r *Registry) loadGolden(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.normalizer.Normalize(string(data)), nil
}

// Cases returns all discovered test cases in deterministic order.
func (r *Registry) Cases() []types.TestCase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cases
}

// Options returns the suite options in effect.
func (r *Registry) Options() SuiteOptions {
	return r.options
}

// Normalizer returns the comparison normalizer built from the suite
// options. Live captures must use the same one as the goldens.
func (r *Registry) Normalizer() transcript.Normalizer {
	return r.normalizer
}

// TotalPoints returns the sum of point values across discovered cases.
func (r *Registry) TotalPoints() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, tc := range r.cases {
		total += tc.Points
	}
	return total
}
