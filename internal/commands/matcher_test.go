package commands_test

import (
	"testing"

	"github.com/temirov/readmegen/internal/commands"
	"github.com/temirov/readmegen/internal/config"
	"github.com/temirov/readmegen/internal/types"
)

func directoryEntry(relativePath string, name string) commands.Entry {
	return commands.Entry{Kind: commands.EntryDirectory, Name: name, RelativePath: relativePath}
}

func fileEntry(relativePath string, name string) commands.Entry {
	return commands.Entry{Kind: commands.EntryFile, Name: name, RelativePath: relativePath}
}

func TestMatchers(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		kind     string
		patterns []string
		entry    commands.Entry
		expected bool
	}{
		{name: "substring inside name", kind: types.MatcherSubstring, patterns: []string{"build"}, entry: fileEntry("prebuild.py", "prebuild.py"), expected: true},
		{name: "substring ignores parent path", kind: "", patterns: []string{"src"}, entry: fileEntry("src/app.py", "app.py"), expected: false},
		{name: "substring treats glob characters literally", kind: types.MatcherSubstring, patterns: []string{"*.log"}, entry: fileEntry("debug.log", "debug.log"), expected: false},
		{name: "substring literal negation", kind: types.MatcherSubstring, patterns: []string{"!keep"}, entry: fileEntry("a!keep.txt", "a!keep.txt"), expected: true},
		{name: "glob wildcard on name", kind: types.MatcherGlob, patterns: []string{"*.log"}, entry: fileEntry("logs/debug.log", "debug.log"), expected: true},
		{name: "glob exact name does not match substrings", kind: types.MatcherGlob, patterns: []string{"build"}, entry: fileEntry("prebuild.py", "prebuild.py"), expected: false},
		{name: "glob directory-only pattern skips files", kind: types.MatcherGlob, patterns: []string{"dist/"}, entry: fileEntry("dist", "dist"), expected: false},
		{name: "glob directory-only pattern matches directories", kind: types.MatcherGlob, patterns: []string{"dist/"}, entry: directoryEntry("web/dist", "dist"), expected: true},
		{name: "glob anchored pattern matches root entry", kind: types.MatcherGlob, patterns: []string{"/vendor"}, entry: directoryEntry("vendor", "vendor"), expected: true},
		{name: "glob anchored pattern skips nested entry", kind: types.MatcherGlob, patterns: []string{"/vendor"}, entry: directoryEntry("lib/vendor", "vendor"), expected: false},
		{name: "glob path pattern", kind: types.MatcherGlob, patterns: []string{"docs/**/*.txt"}, entry: fileEntry("docs/a/b/notes.txt", "notes.txt"), expected: true},
		{name: "glob negation is skipped", kind: types.MatcherGlob, patterns: []string{"!keep.py"}, entry: fileEntry("keep.py", "keep.py"), expected: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			matcher, matcherError := commands.NewMatcher(testCase.kind, config.NewPatternSet(testCase.patterns...))
			if matcherError != nil {
				subTest.Fatalf("NewMatcher error: %v", matcherError)
			}
			if matched := matcher.Matches(testCase.entry); matched != testCase.expected {
				subTest.Fatalf("Matches(%s) = %v, want %v", testCase.entry.RelativePath, matched, testCase.expected)
			}
		})
	}
}

func TestEntryExtension(testingHandle *testing.T) {
	testCases := map[string]string{
		"main.py":        "py",
		"archive.tar.gz": "gz",
		"Makefile":       "",
		".env":           "env",
		"trailing.":      "",
	}
	for name, expected := range testCases {
		if extension := fileEntry(name, name).Extension(); extension != expected {
			testingHandle.Fatalf("Extension(%q) = %q, want %q", name, extension, expected)
		}
	}
}
