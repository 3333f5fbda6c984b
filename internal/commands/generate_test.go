package commands_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/readmegen/internal/commands"
	"github.com/temirov/readmegen/internal/services/llm"
	"github.com/temirov/readmegen/internal/services/source"
)

func TestGenerateReadmeFromDirectory(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeFile(testingHandle, rootDirectory, ".gitignore", "dist\n")
	writeFile(testingHandle, rootDirectory, "app.py", "def main():\n    \"\"\"Entry point.\"\"\"\n    print('hi')\n")
	writeFile(testingHandle, rootDirectory, "dist/bundle.js", "minified")
	writeFile(testingHandle, rootDirectory, "requirements.txt", "flask==3.0\n")
	writeFile(testingHandle, rootDirectory, "notes.md", "ignored by extension")

	completer := &scriptedCompleter{respond: func(messages []llm.Message) (string, error) {
		if strings.Contains(messages[0].Content, "summarizes") {
			return "Prints a greeting.", nil
		}
		return "# Project\n\nGenerated.", nil
	}}

	result, generateError := commands.GenerateReadme(context.Background(), commands.GenerateOptions{
		Input:         rootDirectory,
		Source:        source.Options{Workspace: filepath.Join(testingHandle.TempDir(), "workspace")},
		UseGitignore:  true,
		Extensions:    allowListedExtensions,
		MaxCharacters: 5000,
		Summarize:     true,
		Completer:     completer,
	})
	if generateError != nil {
		testingHandle.Fatalf("GenerateReadme error: %v", generateError)
	}
	if result.Readme != "# Project\n\nGenerated.\n" {
		testingHandle.Fatalf("unexpected readme %q", result.Readme)
	}
	if result.Repository.Kind != source.KindDirectory {
		testingHandle.Fatalf("expected an in-place directory, got %s", result.Repository.Kind)
	}
	if completer.requestCount() != 3 {
		testingHandle.Fatalf("expected two summaries and one README request, got %d", completer.requestCount())
	}
	for _, fragment := range []string{" 📄 app.py", "requirements.txt (python)", "Prints a greeting."} {
		if !strings.Contains(result.Prompt, fragment) {
			testingHandle.Fatalf("prompt missing %q:\n%s", fragment, result.Prompt)
		}
	}
	if strings.Contains(result.Prompt, "bundle.js") || strings.Contains(result.Prompt, "notes.md") {
		testingHandle.Fatalf("ignored files leaked into the prompt:\n%s", result.Prompt)
	}
	if len(result.Collected.Records) != 2 || result.Collected.Records[0].Path != "app.py" || result.Collected.Records[0].Summary != "Prints a greeting." {
		testingHandle.Fatalf("unexpected records %+v", result.Collected.Records)
	}
}

func TestGenerateReadmeAbortsBeforeTraversalOnUnsupportedInput(testingHandle *testing.T) {
	completer := &scriptedCompleter{respond: func([]llm.Message) (string, error) { return "unused", nil }}
	_, generateError := commands.GenerateReadme(context.Background(), commands.GenerateOptions{
		Input:     filepath.Join(testingHandle.TempDir(), "missing"),
		Completer: completer,
	})
	if !errors.Is(generateError, source.ErrUnsupportedSource) {
		testingHandle.Fatalf("expected ErrUnsupportedSource, got %v", generateError)
	}
	if completer.requestCount() != 0 {
		testingHandle.Fatalf("no model request may be sent when materialization fails")
	}
}

func TestGenerateReadmeRequiresCompleter(testingHandle *testing.T) {
	_, generateError := commands.GenerateReadme(context.Background(), commands.GenerateOptions{Input: testingHandle.TempDir()})
	if !errors.Is(generateError, commands.ErrMissingCompleter) {
		testingHandle.Fatalf("expected ErrMissingCompleter, got %v", generateError)
	}
}
