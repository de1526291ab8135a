package main

import (
	"fmt"
	"regexp"
	"strings"
)

// TestMatcher is a compiled predicate over import source strings.
// Matching is case-insensitive. Matchers are immutable after creation.
type TestMatcher struct {
	pattern     *regexp.Regexp
	inputString string
}

func (m TestMatcher) Test(source string) bool {
	return m.pattern.MatchString(source)
}

func (m TestMatcher) String() string {
	return m.inputString
}

// CompileTestMatcher compiles a single pattern into a TestMatcher.
// A pattern wrapped in slashes (`/…/`) is used as a literal regular
// expression source. Any other string matches itself exactly; with
// openEnded it also matches the string followed by a `/`, `?` or `#`
// sub-path (so "foo" matches "foo/bar" and "foo?x=1" but not "foobar").
func CompileTestMatcher(pattern string, openEnded bool) (TestMatcher, error) {
	var source string

	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		source = pattern[1 : len(pattern)-1]
	} else {
		escaped := regexp.QuoteMeta(pattern)
		if openEnded {
			source = "^" + escaped + "([/?#].+)?$"
		} else {
			source = "^" + escaped + "$"
		}
	}

	compiled, err := regexp.Compile("(?i)" + source)
	if err != nil {
		return TestMatcher{}, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}

	return TestMatcher{
		pattern:     compiled,
		inputString: pattern,
	}, nil
}

// CompileTestMatchers compiles a pattern list, failing on the first
// malformed pattern. Order of the input list is preserved.
func CompileTestMatchers(patterns []string, openEnded bool) ([]TestMatcher, error) {
	matchers := make([]TestMatcher, 0, len(patterns))
	for _, pattern := range patterns {
		matcher, err := CompileTestMatcher(pattern, openEnded)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, matcher)
	}
	return matchers, nil
}

// MatchesAnyTest reports whether at least one matcher in the list
// matches the source string. Inclusion lists use this OR semantics;
// exclusion lists use it negated (no matcher may match).
func MatchesAnyTest(source string, matchers []TestMatcher) bool {
	for _, matcher := range matchers {
		if matcher.Test(source) {
			return true
		}
	}
	return false
}
