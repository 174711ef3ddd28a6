package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertStatusCode checks the response code and prints the body on mismatch.
func AssertStatusCode(t *testing.T, s *Step, got int, body []byte) bool {
	t.Helper()
	return assert.Equal(t, s.ExpectedCode, got,
		"[%s] HTTP status code mismatch\nbody: %s", s.Name, string(body))
}

// AssertJSONSubset checks that every value in expected appears in actual.
// Both sides are decoded first so key order and number formatting do not
// matter.
func AssertJSONSubset(t *testing.T, s *Step, expected, actual []byte) bool {
	t.Helper()

	var expVal, actVal interface{}
	if err := json.Unmarshal(expected, &expVal); err != nil {
		t.Errorf("[%s] expectation is not valid JSON: %v", s.Name, err)
		return false
	}
	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] response is not valid JSON\nbody: %s", s.Name, string(actual)) {
		return false
	}

	diffs := DiffJSON("", expVal, actVal)
	if len(diffs) == 0 {
		return true
	}
	t.Errorf("[%s] response does not match expectation:\n%s\nbody: %s",
		s.Name, strings.Join(diffs, "\n"), string(actual))
	return false
}

// DiffJSON lists the places where actual does not contain expected.
// Objects are compared by the keys of expected only; arrays must have the
// same length.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if !assert.ObjectsAreEqual(expected, actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
