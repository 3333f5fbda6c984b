package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/readmegen/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadIgnorePatternsSkipsCommentsAndBlankLines verifies trimming, comment handling and deduplication.
func TestLoadIgnorePatternsSkipsCommentsAndBlankLines(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName),
		"# dependencies\nnode_modules\n\n   dist/  \n\t# indented comment\n*.log\nnode_modules\n!keep.txt\n")

	patternSet, loadError := LoadIgnorePatterns(rootDirectory, nil)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnorePatterns failed: %v", loadError)
	}

	expectedPatterns := []string{"!keep.txt", "*.log", "dist/", "node_modules"}
	if !reflect.DeepEqual(patternSet.Patterns(), expectedPatterns) {
		testingHandle.Fatalf("unexpected patterns: got %v want %v", patternSet.Patterns(), expectedPatterns)
	}
}

// TestLoadIgnorePatternsMissingFile verifies a missing .gitignore yields an empty set without error.
func TestLoadIgnorePatternsMissingFile(testingHandle *testing.T) {
	patternSet, loadError := LoadIgnorePatterns(testingHandle.TempDir(), nil)
	if loadError != nil {
		testingHandle.Fatalf("expected no error for missing ignore file, got %v", loadError)
	}
	if patternSet.Len() != 0 {
		testingHandle.Fatalf("expected empty pattern set, got %v", patternSet.Patterns())
	}
}

// TestLoadIgnorePatternsIdempotent verifies repeated loads produce equal sets.
func TestLoadIgnorePatternsIdempotent(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "build\n__pycache__\n.env\n")

	firstSet, firstError := LoadIgnorePatterns(rootDirectory, nil)
	if firstError != nil {
		testingHandle.Fatalf("first load failed: %v", firstError)
	}
	secondSet, secondError := LoadIgnorePatterns(rootDirectory, nil)
	if secondError != nil {
		testingHandle.Fatalf("second load failed: %v", secondError)
	}
	if !firstSet.Equal(secondSet) {
		testingHandle.Fatalf("expected equal sets, got %v and %v", firstSet.Patterns(), secondSet.Patterns())
	}
}

// TestLoadIgnorePatternsDirectoryInPlaceOfFile verifies unreadable ignore files surface an error.
func TestLoadIgnorePatternsDirectoryInPlaceOfFile(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	if makeDirError := os.Mkdir(filepath.Join(rootDirectory, utils.GitIgnoreFileName), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create directory: %v", makeDirError)
	}
	if _, loadError := LoadIgnorePatterns(rootDirectory, nil); loadError == nil {
		testingHandle.Fatalf("expected error when .gitignore is a directory")
	}
}

// TestPatternSetWith verifies extra patterns are merged into a new set.
func TestPatternSetWith(testingHandle *testing.T) {
	baseSet := NewPatternSet("vendor", "", "dist")
	extendedSet := baseSet.With(" coverage ", "dist", "")

	if baseSet.Len() != 2 {
		testingHandle.Fatalf("expected base set to stay unchanged, got %v", baseSet.Patterns())
	}
	expectedPatterns := []string{"coverage", "dist", "vendor"}
	if !reflect.DeepEqual(extendedSet.Patterns(), expectedPatterns) {
		testingHandle.Fatalf("unexpected patterns: got %v want %v", extendedSet.Patterns(), expectedPatterns)
	}
}
