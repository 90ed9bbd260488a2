package bladex

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	componentDirective = regexp2.MustCompile(`@component\('(?<view>[^']*)'`, regexp2.None)
	slotDirective      = regexp2.MustCompile(`@slot\('(?<name>[^']*)'\)`, regexp2.None)
)

// TestResult holds the result of compiling a template for testing.
//
// Provides convenience methods for asserting on the emitted directives.
type TestResult struct {
	Source     string
	Output     string
	StatusCode int
}

// TestCompile compiles source against reg and returns testable output.
//
//	result, err := bladex.TestCompile(reg, `<x-alert type="error"/>`)
//	if !result.Contains(`'type' => 'error'`) {
//	    t.Fatal("missing type attribute")
//	}
func TestCompile(reg *Registry, source string) (*TestResult, error) {
	out, err := reg.Compile(source)
	if err != nil {
		return nil, err
	}
	return &TestResult{Source: source, Output: out, StatusCode: http.StatusOK}, nil
}

// TestHandler posts source to the registry's compile handler.
//
// Unlike TestCompile, compile failures are reported through StatusCode and
// the Output holds the error body.
func TestHandler(reg *Registry, source string) *TestResult {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(source))
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, req)
	return &TestResult{Source: source, Output: rec.Body.String(), StatusCode: rec.Code}
}

// Contains checks if the output contains a substring.
func (r *TestResult) Contains(substr string) bool {
	return strings.Contains(r.Output, substr)
}

// ContainsAll checks if the output contains all the given substrings.
func (r *TestResult) ContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.Output, s) {
			return false
		}
	}
	return true
}

// ContainsAny checks if the output contains any of the given substrings.
func (r *TestResult) ContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.Output, s) {
			return true
		}
	}
	return false
}

// Count returns the number of non-overlapping occurrences of substr.
func (r *TestResult) Count(substr string) int {
	return strings.Count(r.Output, substr)
}

// Components returns the views of the emitted component directives in
// order of appearance.
func (r *TestResult) Components() []string {
	return r.captures(componentDirective, "view")
}

// Slots returns the names of the emitted slot directives in order of
// appearance.
func (r *TestResult) Slots() []string {
	return r.captures(slotDirective, "name")
}

// Balanced checks that every component and slot directive is closed.
func (r *TestResult) Balanced() bool {
	return r.Count("@component(") == r.Count("@endcomponent") &&
		r.Count("@slot(") == r.Count("@endslot")
}

// Unchanged checks that compilation left the source untouched.
func (r *TestResult) Unchanged() bool {
	return r.Output == r.Source
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

func (r *TestResult) captures(re *regexp2.Regexp, group string) []string {
	var out []string
	m, _ := re.FindStringMatch(r.Output)
	for m != nil {
		out = append(out, m.GroupByName(group).String())
		m, _ = re.FindNextMatch(m)
	}
	return out
}
