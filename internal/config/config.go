// Package config loads the repository ignore file and the application configuration.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/readmegen/internal/utils"
)

const (
	commentPrefix = "#"

	warningMissingIgnoreFile = ".gitignore not found in repository root; scanning without ignore rules"
	warningCloseIgnoreFile   = "failed to close ignore file"

	errorOpenIgnoreFileFormat = "opening %s: %w"
	errorScanIgnoreFileFormat = "reading %s: %w"
)

// PatternSet is the deduplicated, immutable set of raw ignore patterns loaded for one run.
type PatternSet struct {
	patterns map[string]struct{}
}

// NewPatternSet builds a set from raw pattern strings. Patterns are kept verbatim;
// empty strings are dropped because they would match every name.
func NewPatternSet(patterns ...string) PatternSet {
	set := PatternSet{patterns: make(map[string]struct{}, len(patterns))}
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		set.patterns[pattern] = struct{}{}
	}
	return set
}

// Len returns the number of distinct patterns.
func (set PatternSet) Len() int {
	return len(set.patterns)
}

// Contains reports whether the exact pattern is part of the set.
func (set PatternSet) Contains(pattern string) bool {
	_, found := set.patterns[pattern]
	return found
}

// Patterns returns the patterns sorted lexicographically so callers iterate deterministically.
func (set PatternSet) Patterns() []string {
	result := make([]string, 0, len(set.patterns))
	for pattern := range set.patterns {
		result = append(result, pattern)
	}
	sort.Strings(result)
	return result
}

// With returns a new set holding the receiver's patterns plus the trimmed extra patterns.
func (set PatternSet) With(extraPatterns ...string) PatternSet {
	combined := set.Patterns()
	for _, pattern := range extraPatterns {
		combined = append(combined, strings.TrimSpace(pattern))
	}
	return NewPatternSet(combined...)
}

// Equal reports set equality independent of insertion order.
func (set PatternSet) Equal(other PatternSet) bool {
	if set.Len() != other.Len() {
		return false
	}
	for pattern := range set.patterns {
		if !other.Contains(pattern) {
			return false
		}
	}
	return true
}

// LoadIgnorePatterns reads <rootPath>/.gitignore and returns its non-empty,
// non-comment lines, trimmed, as a PatternSet. A missing file is not an error:
// a warning is logged and an empty set is returned so scanning proceeds unfiltered.
//
// #nosec G304
func LoadIgnorePatterns(rootPath string, logger *zap.Logger) (PatternSet, error) {
	logger = utils.LoggerOrNop(logger)
	ignoreFilePath := filepath.Join(rootPath, utils.GitIgnoreFileName)

	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if errors.Is(openFileError, fs.ErrNotExist) {
			logger.Warn(warningMissingIgnoreFile, zap.String("root", rootPath))
			return NewPatternSet(), nil
		}
		return PatternSet{}, fmt.Errorf(errorOpenIgnoreFileFormat, ignoreFilePath, openFileError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			logger.Warn(warningCloseIgnoreFile, zap.String("path", ignoreFilePath), zap.Error(closeError))
		}
	}()

	patterns, readError := readPatternLines(fileHandle)
	if readError != nil {
		return PatternSet{}, fmt.Errorf(errorScanIgnoreFileFormat, ignoreFilePath, readError)
	}
	logger.Debug("loaded ignore patterns", zap.String("path", ignoreFilePath), zap.Int("count", len(patterns)))
	return NewPatternSet(patterns...), nil
}

func readPatternLines(reader io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patterns, nil
}
