package registry

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SuiteOptions are optional per-suite settings loaded from suite.yaml in
// the suite directory. The timing values override the harness defaults;
// their default magnitudes are calibrated against how golden transcripts
// were recorded, so overrides should stay in the same ballpark.
type SuiteOptions struct {
	// Prompts are literal substrings the normalizer erases from every
	// line before comparison, e.g. an interactive "Enter choice: " prompt.
	Prompts []string `yaml:"prompts"`

	SettleDelay Duration `yaml:"settle_delay"`
	StepDelay   Duration `yaml:"step_delay"`
	DrainGrace  Duration `yaml:"drain_grace"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "1.2s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration, or fallback when unset.
func (d Duration) Std(fallback time.Duration) time.Duration {
	if d == 0 {
		return fallback
	}
	return time.Duration(d)
}

func loadSuiteOptions(path string) (SuiteOptions, error) {
	var opts SuiteOptions
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("reading suite options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing suite options: %w", err)
	}
	return opts, nil
}
