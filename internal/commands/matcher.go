package commands

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/readmegen/internal/config"
	"github.com/temirov/readmegen/internal/types"
)

const (
	errorUnknownMatcherFormat = "unknown matcher %q (expected %s or %s)"

	negationPrefix      = "!"
	anchorPrefix        = "/"
	directorySuffix     = "/"
	descendantsWildcard = "/**"
)

// Matcher decides whether a directory entry is excluded by the ignore patterns.
type Matcher interface {
	Matches(entry Entry) bool
}

// NewMatcher builds the matcher named by kind over the pattern set. An empty
// kind selects the substring matcher.
func NewMatcher(kind string, patterns config.PatternSet) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", types.MatcherSubstring:
		return substringMatcher{patterns: patterns.Patterns()}, nil
	case types.MatcherGlob:
		return newGlobMatcher(patterns.Patterns()), nil
	default:
		return nil, fmt.Errorf(errorUnknownMatcherFormat, kind, types.MatcherSubstring, types.MatcherGlob)
	}
}

// substringMatcher excludes an entry when any pattern occurs anywhere in its
// bare name. "build" therefore also excludes "prebuild.py".
type substringMatcher struct {
	patterns []string
}

func (matcher substringMatcher) Matches(entry Entry) bool {
	for _, pattern := range matcher.patterns {
		if strings.Contains(entry.Name, pattern) {
			return true
		}
	}
	return false
}

type globPattern struct {
	expression    string
	anchored      bool
	directoryOnly bool
}

// globMatcher applies doublestar patterns with the common .gitignore
// conventions: a trailing '/' restricts the pattern to directories and a
// leading '/' anchors it to the repository root. Patterns without a '/' match
// the bare name at any depth. Negated patterns are not supported and are skipped.
type globMatcher struct {
	patterns []globPattern
}

func newGlobMatcher(rawPatterns []string) globMatcher {
	var patterns []globPattern
	for _, rawPattern := range rawPatterns {
		if strings.HasPrefix(rawPattern, negationPrefix) {
			continue
		}
		pattern := globPattern{expression: rawPattern}
		if strings.HasSuffix(pattern.expression, directorySuffix) {
			pattern.directoryOnly = true
			pattern.expression = strings.TrimSuffix(pattern.expression, directorySuffix)
		}
		if strings.HasPrefix(pattern.expression, anchorPrefix) {
			pattern.anchored = true
			pattern.expression = strings.TrimPrefix(pattern.expression, anchorPrefix)
		} else if strings.Contains(pattern.expression, "/") {
			pattern.anchored = true
		}
		if pattern.expression == "" || !doublestar.ValidatePattern(pattern.expression) {
			continue
		}
		patterns = append(patterns, pattern)
	}
	return globMatcher{patterns: patterns}
}

func (matcher globMatcher) Matches(entry Entry) bool {
	for _, pattern := range matcher.patterns {
		if pattern.directoryOnly && entry.Kind != EntryDirectory {
			continue
		}
		candidate := entry.Name
		if pattern.anchored {
			candidate = entry.RelativePath
		}
		if matched, _ := doublestar.Match(pattern.expression, candidate); matched {
			return true
		}
		if pattern.anchored {
			if matched, _ := doublestar.Match(pattern.expression+descendantsWildcard, candidate); matched {
				return true
			}
		}
	}
	return false
}
