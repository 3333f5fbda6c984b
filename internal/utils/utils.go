// Package utils contains general helper functions used across the readmegen tool.
package utils

import (
	"path/filepath"
	"strings"
)

// File and directory names used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file read from the repository root.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// EnvironmentFileName is the dotenv file holding model credentials.
	EnvironmentFileName = ".env"
	// ConfigFileName is the application configuration file name.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the per-user configuration directory under $HOME.
	GlobalConfigDirectoryName = ".readmegen"
)

const (
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %v"
	ApplicationExecutionFailedMessage       = "readmegen failed"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizeExtensions lower-cases extensions and strips a leading dot, dropping empty values.
func NormalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, extension := range extensions {
		trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(extension)), ".")
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return DeduplicatePatterns(normalized)
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}
