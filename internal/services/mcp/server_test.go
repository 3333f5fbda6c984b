package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestNewServerRequiresExecutor(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{}); !errors.Is(err, ErrNoExecutors) {
		t.Fatalf("expected ErrNoExecutors, got %v", err)
	}
}

func TestHandleCollect(t *testing.T) {
	t.Parallel()

	var received CollectInput
	server, err := NewServer(Config{Collect: func(ctx context.Context, input CollectInput) (CollectOutput, error) {
		received = input
		return CollectOutput{Root: input.Path, Format: "raw", Files: 2, Output: "📂 repo/"}, nil
	}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	result, output, err := server.handleCollect(context.Background(), nil, CollectInput{Path: "  ./repo  ", Matcher: "glob"})
	if err != nil {
		t.Fatalf("handleCollect: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for success, got %+v", result)
	}
	if received.Path != "./repo" || received.Matcher != "glob" {
		t.Fatalf("executor received %+v", received)
	}
	if output.Files != 2 || output.Output != "📂 repo/" {
		t.Fatalf("unexpected output %+v", output)
	}
}

func TestHandleCollectRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	called := false
	server, err := NewServer(Config{Collect: func(context.Context, CollectInput) (CollectOutput, error) {
		called = true
		return CollectOutput{}, nil
	}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	result, _, err := server.handleCollect(context.Background(), nil, CollectInput{Path: "   "})
	if !errors.Is(err, ErrMissingPath) {
		t.Fatalf("expected ErrMissingPath, got %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatalf("expected error result, got %+v", result)
	}
	if called {
		t.Fatalf("executor must not run without a path")
	}
}

func TestHandleGenerateReportsExecutorFailure(t *testing.T) {
	t.Parallel()

	failure := errors.New("model unavailable")
	server, err := NewServer(Config{Generate: func(context.Context, GenerateInput) (GenerateOutput, error) {
		return GenerateOutput{}, failure
	}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	result, output, err := server.handleGenerate(context.Background(), nil, GenerateInput{Input: "repo.zip"})
	if !errors.Is(err, failure) {
		t.Fatalf("expected executor error, got %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatalf("expected error result, got %+v", result)
	}
	if output.Readme != "" {
		t.Fatalf("expected empty output on failure, got %+v", output)
	}
}

func TestServerOverInMemoryTransport(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := NewServer(Config{
		Version: "v0.0.1",
		Collect: func(ctx context.Context, input CollectInput) (CollectOutput, error) {
			return CollectOutput{Root: input.Path, Format: "raw", Files: 1, Output: "tree"}, nil
		},
		Generate: func(ctx context.Context, input GenerateInput) (GenerateOutput, error) {
			return GenerateOutput{Root: input.Input, Files: 1, Readme: "# repo\n"}, nil
		},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	clientTransport, serverTransport := sdk.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := sdk.NewClient(&sdk.Implementation{Name: "readmegen-test", Version: "v0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer clientSession.Close()

	tools, err := clientSession.ListTools(ctx, &sdk.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != ToolCollectRepository || names[1] != ToolGenerateReadme {
		t.Fatalf("unexpected tools %v", names)
	}

	callResult, err := clientSession.CallTool(ctx, &sdk.CallToolParams{
		Name:      ToolGenerateReadme,
		Arguments: map[string]any{"input": "https://github.com/example/repo.git"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if callResult.IsError {
		t.Fatalf("unexpected tool error: %+v", callResult.Content)
	}
	encoded, err := json.Marshal(callResult.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var output GenerateOutput
	if err := json.Unmarshal(encoded, &output); err != nil {
		t.Fatalf("decode structured content: %v", err)
	}
	if output.Readme != "# repo\n" || output.Root != "https://github.com/example/repo.git" {
		t.Fatalf("unexpected output %+v", output)
	}
}
