package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/temirov/readmegen/internal/services/llm"
	"github.com/temirov/readmegen/internal/services/mcp"
	"github.com/temirov/readmegen/internal/types"
	"github.com/temirov/readmegen/internal/utils"
)

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

type cannedCompleter struct {
	mutex    sync.Mutex
	requests [][]llm.Message
	reply    string
}

func (completer *cannedCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	completer.mutex.Lock()
	defer completer.mutex.Unlock()
	completer.requests = append(completer.requests, messages)
	return completer.reply, nil
}

func writeRepositoryFile(t *testing.T, root string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", relativePath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", relativePath, err)
	}
}

// newRepository creates an isolated home and a small repository to run commands in.
func newRepository(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(apiKeyEnvironmentVariable, "")
	root := t.TempDir()
	writeRepositoryFile(t, root, ".gitignore", "# build output\nbuild\n")
	writeRepositoryFile(t, root, "src/app.py", "def main():\n    return 1\n")
	writeRepositoryFile(t, root, "build/bundle.js", "ignored")
	writeRepositoryFile(t, root, "README.md", "not allow-listed")
	writeRepositoryFile(t, root, "web/index.ts", "export const answer = 42;\n")
	return root
}

func runCommand(t *testing.T, dependencies Dependencies, arguments ...string) (string, error) {
	t.Helper()
	rootCommand := NewRootCommand(dependencies)
	var stdout bytes.Buffer
	rootCommand.SetOut(&stdout)
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	executeError := rootCommand.ExecuteContext(context.Background())
	return stdout.String(), executeError
}

func TestTreeCommandRendersFilteredTree(t *testing.T) {
	root := newRepository(t)

	output, err := runCommand(t, Dependencies{WorkingDirectory: root}, "tree")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	expected := "📂 src/\n    📄 app.py\n📂 web/\n    📄 index.ts\n"
	if output != expected {
		t.Fatalf("unexpected tree:\n%q\nwant\n%q", output, expected)
	}
}

func TestTreeCommandExclusionAndGitignoreToggle(t *testing.T) {
	root := newRepository(t)

	output, err := runCommand(t, Dependencies{WorkingDirectory: root}, "t", "--no-gitignore", "-e", "web", root)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if !strings.Contains(output, "📂 build/") || !strings.Contains(output, "📄 bundle.js") {
		t.Fatalf("expected build directory without .gitignore:\n%s", output)
	}
	if strings.Contains(output, "web/") {
		t.Fatalf("expected web to be excluded:\n%s", output)
	}
}

func TestCollectCommandJSONWithTokensAndCopy(t *testing.T) {
	root := newRepository(t)
	copier := &recordingCopier{}

	output, err := runCommand(t, Dependencies{WorkingDirectory: root, Copier: copier, TokenCounter: runeCounter{}},
		"collect", "--format", "json", "--tokens", "--copy", "yes", "--max-chars", "10", ".")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	var document struct {
		Tree    string              `json:"tree"`
		Files   []types.FileRecord  `json:"files"`
		Summary types.OutputSummary `json:"summary"`
	}
	if err := json.Unmarshal([]byte(output), &document); err != nil {
		t.Fatalf("decode output: %v\n%s", err, output)
	}
	if len(document.Files) != 2 || document.Files[0].Path != "src/app.py" || document.Files[1].Path != "web/index.ts" {
		t.Fatalf("unexpected files %+v", document.Files)
	}
	if !document.Files[0].Truncated || !strings.HasSuffix(document.Files[0].Content, utils.TruncationMarker) {
		t.Fatalf("expected truncated content, got %+v", document.Files[0])
	}
	if document.Files[0].Tokens == 0 || document.Summary.Model != "runes" || document.Summary.TotalFiles != 2 {
		t.Fatalf("unexpected token accounting: files %+v summary %+v", document.Files, document.Summary)
	}
	if len(copier.copied) != 1 || copier.copied[0] != output {
		t.Fatalf("expected the rendered output on the clipboard, got %d copies", len(copier.copied))
	}
}

func TestCollectCommandHonorsConfiguration(t *testing.T) {
	root := newRepository(t)
	writeRepositoryFile(t, root, utils.ConfigFileName, "collect:\n  extensions: [ts]\n  exclude: [src]\noutput:\n  format: yaml\n")

	output, err := runCommand(t, Dependencies{WorkingDirectory: root}, "c")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if !strings.Contains(output, "path: web/index.ts") {
		t.Fatalf("expected yaml record for index.ts:\n%s", output)
	}
	if strings.Contains(output, "app.py") {
		t.Fatalf("configured exclusion ignored:\n%s", output)
	}
}

func TestCollectCommandRejectsUnknownFormat(t *testing.T) {
	root := newRepository(t)

	if _, err := runCommand(t, Dependencies{WorkingDirectory: root}, "collect", "--format", "xml"); err == nil {
		t.Fatalf("expected an error for an unsupported format")
	}
}

func TestGenerateCommandWritesReadme(t *testing.T) {
	root := newRepository(t)
	completer := &cannedCompleter{reply: "# Demo\n\nA demo project.\n\n"}

	output, err := runCommand(t, Dependencies{WorkingDirectory: root, Completer: completer, TokenCounter: runeCounter{}},
		"generate", ".", "--output", "GENERATED.md")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if output != "" {
		t.Fatalf("expected nothing on stdout when writing a file, got %q", output)
	}
	written, readError := os.ReadFile(filepath.Join(root, "GENERATED.md"))
	if readError != nil {
		t.Fatalf("read README: %v", readError)
	}
	if string(written) != "# Demo\n\nA demo project.\n" {
		t.Fatalf("unexpected README %q", written)
	}
	if len(completer.requests) != 1 {
		t.Fatalf("expected a single README request, got %d", len(completer.requests))
	}
	userPrompt := completer.requests[0][1].Content
	if !strings.Contains(userPrompt, "src/app.py") || strings.Contains(userPrompt, "bundle.js") {
		t.Fatalf("unexpected prompt:\n%s", userPrompt)
	}
}

func TestGenerateRequiresAPIKeyWithoutTerminal(t *testing.T) {
	root := newRepository(t)
	app := &application{
		logger:           utils.LoggerOrNop(nil),
		tokenCounter:     runeCounter{},
		credentials:      credentialSource{lookup: func(string) (string, bool) { return "", false }},
		workingDirectory: root,
	}
	if err := app.prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	_, err := app.runGenerate(context.Background(), generateRequest{input: root, settings: collectSettings{root: root}}, true)
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestInitCommandWritesConfigurationOnce(t *testing.T) {
	root := newRepository(t)

	output, err := runCommand(t, Dependencies{WorkingDirectory: root}, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(output, filepath.Join(root, utils.ConfigFileName)) {
		t.Fatalf("unexpected init output %q", output)
	}
	if _, err := runCommand(t, Dependencies{WorkingDirectory: root}, "init"); err == nil {
		t.Fatalf("expected init to refuse overwriting without --force")
	}
	if _, err := runCommand(t, Dependencies{WorkingDirectory: root}, "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}

func TestMCPExecutorsUseConfiguration(t *testing.T) {
	root := newRepository(t)
	app := &application{
		logger:           utils.LoggerOrNop(nil),
		copier:           &recordingCopier{},
		completer:        &cannedCompleter{reply: "# Tool README"},
		tokenCounter:     runeCounter{},
		credentials:      credentialSource{},
		workingDirectory: root,
	}
	if err := app.prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	collected, err := app.executeCollectTool(context.Background(), mcp.CollectInput{Path: ".", Exclude: []string{"web"}})
	if err != nil {
		t.Fatalf("collect tool: %v", err)
	}
	if collected.Files != 1 || collected.Format != types.FormatRaw || !strings.Contains(collected.Output, "File: src/app.py") {
		t.Fatalf("unexpected collect output %+v", collected)
	}

	summarize := false
	generated, err := app.executeGenerateTool(context.Background(), mcp.GenerateInput{Input: root, Summarize: &summarize})
	if err != nil {
		t.Fatalf("generate tool: %v", err)
	}
	if generated.Readme != "# Tool README\n" || generated.Files != 2 || generated.Root != root {
		t.Fatalf("unexpected generate output %+v", generated)
	}
}
