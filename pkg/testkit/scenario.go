// Package testkit runs JSON-described HTTP scenarios against an
// http.Handler.
//
// A scenario file holds an ordered list of steps that share one handler,
// so later steps observe the writes of earlier ones:
//
//	testdata/
//	  restock_flow.json        ← [{"name": ..., "method": "POST", ...}, ...]
//	  bodies/restock.json      ← request body referenced by bodyFile
//
// Usage:
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, func(t *testing.T) http.Handler { return newHandler(t) }, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Step is one request and its expectations.
type Step struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`

	// Body is sent as-is. BodyFile, relative to the scenario file, wins
	// when both are set.
	Body     json.RawMessage `json:"body"`
	BodyFile string          `json:"bodyFile"`

	ExpectedCode int `json:"expectedCode"`

	// Expect is matched as a subset of the response: every key it names
	// must be present with an equal value, other keys are ignored.
	Expect json.RawMessage `json:"expect"`
	// ExpectFile holds an Expect document, relative to the scenario file.
	ExpectFile string `json:"expectFile"`

	dir string
}

// Scenario is a named, ordered list of steps.
type Scenario struct {
	Name  string
	Steps []*Step
}

// LoadScenario reads a JSON array of steps. The scenario is named after
// the file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var steps []*Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("testkit: %q has no steps", abs)
	}

	dir := filepath.Dir(abs)
	for i, s := range steps {
		s.dir = dir
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: %q step %d: %w", abs, i, err)
		}
	}

	return &Scenario{
		Name:  strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
		Steps: steps,
	}, nil
}

func (s *Step) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.Method == "" {
		s.Method = "GET"
	}
	s.Method = strings.ToUpper(s.Method)
	return nil
}

// RequestBody returns the bytes to send, or nil.
func (s *Step) RequestBody() ([]byte, error) {
	if s.BodyFile != "" {
		return os.ReadFile(s.resolve(s.BodyFile))
	}
	if len(s.Body) == 0 {
		return nil, nil
	}
	return s.Body, nil
}

// Expected returns the expected response subset, or nil.
func (s *Step) Expected() ([]byte, error) {
	if s.ExpectFile != "" {
		return os.ReadFile(s.resolve(s.ExpectFile))
	}
	if len(s.Expect) == 0 {
		return nil, nil
	}
	return s.Expect, nil
}

func (s *Step) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
