package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

// HandlerFactory builds a fresh handler for one scenario.
type HandlerFactory func(t *testing.T) http.Handler

// Run executes every step of the scenario at path against one handler
// built by newHandler.
func Run(t *testing.T, newHandler HandlerFactory, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("%v", err)
	}
	t.Run(s.Name, func(t *testing.T) {
		RunScenario(t, newHandler(t), s)
	})
}

// RunDir runs every *.json scenario in dir as a subtest, each with its
// own handler. Body and expectation files belong in a subdirectory.
func RunDir(t *testing.T, newHandler HandlerFactory, dir string) {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}

	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			t.Errorf("%v", err)
			continue
		}
		t.Run(s.Name, func(t *testing.T) {
			RunScenario(t, newHandler(t), s)
		})
	}
}

// RunScenario executes the steps in order. A step that fails stops the
// scenario since later steps depend on its effects.
func RunScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	for _, step := range s.Steps {
		if !runStep(t, handler, step) {
			return
		}
	}
}

func runStep(t *testing.T, handler http.Handler, s *Step) bool {
	t.Helper()

	body, err := s.RequestBody()
	if err != nil {
		t.Errorf("[%s] read request body: %v", s.Name, err)
		return false
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req := httptest.NewRequest(s.Method, s.URL, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	ok := AssertStatusCode(t, s, rec.Code, rec.Body.Bytes())

	expected, err := s.Expected()
	if err != nil {
		t.Errorf("[%s] read expectation: %v", s.Name, err)
		return false
	}
	if expected != nil {
		ok = AssertJSONSubset(t, s, expected, rec.Body.Bytes()) && ok
	}
	return ok
}
