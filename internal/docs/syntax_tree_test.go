//go:build cgo

package docs

import (
	"reflect"
	"testing"

	"github.com/temirov/readmegen/internal/types"
)

func outlineSource(t *testing.T, fileName string, source string) []types.DocumentationEntry {
	t.Helper()
	collector := NewCollector(t.TempDir())
	if !collector.Supports(fileName) {
		t.Fatalf("expected %s to be supported", fileName)
	}
	entries, err := collector.Outline(types.FileRecord{Name: fileName, Path: fileName, Content: source})
	if err != nil {
		t.Fatalf("Outline error: %v", err)
	}
	return entries
}

func TestSyntaxTreeOutlines(t *testing.T) {
	testCases := []struct {
		name     string
		fileName string
		source   string
		expected []types.DocumentationEntry
	}{
		{
			name:     "python",
			fileName: "helpers.py",
			source: `"""Utility helpers."""
import os


def greet(name):
    """Return a greeting."""
    return "hi " + name


@decorator
def wrapped():
    pass


class Greeter:
    """Greets people."""

    def hello(self):
        """Say hello."""
        pass
`,
			expected: []types.DocumentationEntry{
				{Kind: documentationKindModule, Name: "helpers", Doc: "Utility helpers."},
				{Kind: documentationKindFunction, Name: "greet", Doc: "Return a greeting."},
				{Kind: documentationKindFunction, Name: "wrapped"},
				{Kind: documentationKindClass, Name: "Greeter", Doc: "Greets people."},
				{Kind: documentationKindMethod, Name: "Greeter.hello", Doc: "Say hello."},
			},
		},
		{
			name:     "javascript",
			fileName: "math.js",
			source: `/** Adds numbers. */
export function add(a, b) { return a + b; }

// plain comment
const twice = (x) => x * 2;

class Counter {
  /** Increments. */
  increment() {}
}
`,
			expected: []types.DocumentationEntry{
				{Kind: documentationKindFunction, Name: "add", Doc: "Adds numbers."},
				{Kind: documentationKindFunction, Name: "twice"},
				{Kind: documentationKindClass, Name: "Counter"},
				{Kind: documentationKindMethod, Name: "Counter.increment", Doc: "Increments."},
			},
		},
		{
			name:     "typescript",
			fileName: "model.ts",
			source: `/**
 * Options for a run.
 */
export interface Options { verbose: boolean }

type Identifier = string;

enum Color { Red, Green }
`,
			expected: []types.DocumentationEntry{
				{Kind: documentationKindInterface, Name: "Options", Doc: "Options for a run."},
				{Kind: documentationKindType, Name: "Identifier"},
				{Kind: documentationKindEnum, Name: "Color"},
			},
		},
		{
			name:     "tsx",
			fileName: "App.tsx",
			source: `/** Renders the application shell. */
export function App(): JSX.Element {
  return <div className="app" />;
}
`,
			expected: []types.DocumentationEntry{
				{Kind: documentationKindFunction, Name: "App", Doc: "Renders the application shell."},
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			entries := outlineSource(t, testCase.fileName, testCase.source)
			if !reflect.DeepEqual(entries, testCase.expected) {
				t.Fatalf("unexpected entries:\n%+v\nwant\n%+v", entries, testCase.expected)
			}
		})
	}
}

func TestJSDocText(t *testing.T) {
	testCases := map[string]string{
		"/** Single line. */":             "Single line.",
		"/**\n * First.\n * Second.\n */": "First.\nSecond.",
		"// not a doc block":              "",
		"/* block but not JSDoc */":       "",
	}
	for comment, expected := range testCases {
		if text := jsDocText(comment); text != expected {
			t.Fatalf("jsDocText(%q) = %q, want %q", comment, text, expected)
		}
	}
}
