package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Manifest mirrors the meta.json record stored in each case directory.
// Only inputs and points matter to the harness; the remaining fields are
// written by the recorder and carried through untouched.
type Manifest struct {
	TestCaseName string         `json:"test_case_name"`
	Stages       int            `json:"stages"`
	Inputs       []string       `json:"inputs"`
	Points       FlexiblePoints `json:"points"`
	Timestamp    string         `json:"timestamp"`
}

// FlexiblePoints parses a point value that recorders have historically
// written as either a JSON number or a string. Unparseable values fall
// back to zero rather than invalidating the case.
type FlexiblePoints int

func (p *FlexiblePoints) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = FlexiblePoints(clampPoints(n))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*p = 0
		return nil
	}
	*p = FlexiblePoints(clampPoints(n))
	return nil
}

func clampPoints(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
