// Package mcp exposes repository collection and README generation as Model
// Context Protocol tools served over stdio.
package mcp

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/temirov/readmegen/internal/utils"
)

const (
	serverName = "readmegen"

	ToolCollectRepository = "collect_repository"
	ToolGenerateReadme    = "generate_readme"

	collectRepositoryDescription = "Render the directory tree of a local repository followed by the content of every allow-listed file."
	generateReadmeDescription    = "Generate a README for a local directory, a .zip archive or a git URL using the configured language model."

	logToolFailed = "mcp tool failed"
)

var (
	// ErrNoExecutors is returned when a server is configured without any tool.
	ErrNoExecutors = errors.New("mcp server requires at least one executor")
	// ErrMissingPath is returned when a tool is called without its path argument.
	ErrMissingPath = errors.New("path is required")
)

// CollectInput holds the arguments of the collect_repository tool.
type CollectInput struct {
	Path        string   `json:"path" jsonschema:"Directory to collect"`
	Format      string   `json:"format,omitempty" jsonschema:"Output format: raw, json or yaml (default: configured format)"`
	Matcher     string   `json:"matcher,omitempty" jsonschema:"Ignore matcher: substring or glob (default: configured matcher)"`
	MaxChars    int      `json:"maxChars,omitempty" jsonschema:"Per-file character limit (default: configured limit)"`
	Exclude     []string `json:"exclude,omitempty" jsonschema:"Extra ignore patterns"`
	NoGitignore bool     `json:"noGitignore,omitempty" jsonschema:"Skip the root .gitignore"`
	Tokens      bool     `json:"tokens,omitempty" jsonschema:"Count tokens per file"`
}

// CollectOutput is the structured result of collect_repository.
type CollectOutput struct {
	Root   string `json:"root"`
	Format string `json:"format"`
	Files  int    `json:"files"`
	Output string `json:"output"`
}

// GenerateInput holds the arguments of the generate_readme tool.
type GenerateInput struct {
	Input     string `json:"input" jsonschema:"Directory, .zip archive or git URL"`
	Summarize *bool  `json:"summarize,omitempty" jsonschema:"Summarize files before building the README prompt (default: configured value)"`
}

// GenerateOutput is the structured result of generate_readme.
type GenerateOutput struct {
	Root    string `json:"root"`
	Files   int    `json:"files"`
	Dropped int    `json:"dropped,omitempty"`
	Readme  string `json:"readme"`
}

// CollectExecutor runs a collection for the collect_repository tool.
type CollectExecutor func(ctx context.Context, input CollectInput) (CollectOutput, error)

// GenerateExecutor runs the README pipeline for the generate_readme tool.
type GenerateExecutor func(ctx context.Context, input GenerateInput) (GenerateOutput, error)

// Config defines the tools and identity of the server. A nil executor leaves
// its tool unregistered.
type Config struct {
	Version  string
	Collect  CollectExecutor
	Generate GenerateExecutor
	Logger   *zap.Logger
}

// Server wraps an MCP server with the readmegen tools registered.
type Server struct {
	config Config
	logger *zap.Logger
	server *sdk.Server
}

// NewServer registers the configured tools on a new MCP server.
func NewServer(config Config) (*Server, error) {
	if config.Collect == nil && config.Generate == nil {
		return nil, ErrNoExecutors
	}
	version := config.Version
	if version == "" {
		version = "unknown"
	}

	service := &Server{
		config: config,
		logger: utils.LoggerOrNop(config.Logger),
		server: sdk.NewServer(&sdk.Implementation{Name: serverName, Version: version}, nil),
	}
	if config.Collect != nil {
		sdk.AddTool(service.server, &sdk.Tool{
			Name:        ToolCollectRepository,
			Description: collectRepositoryDescription,
		}, service.handleCollect)
	}
	if config.Generate != nil {
		sdk.AddTool(service.server, &sdk.Tool{
			Name:        ToolGenerateReadme,
			Description: generateReadmeDescription,
		}, service.handleGenerate)
	}
	return service, nil
}

// Run serves requests on stdin and stdout until the client disconnects or ctx is done.
func (service *Server) Run(ctx context.Context) error {
	return service.RunTransport(ctx, &sdk.StdioTransport{})
}

// RunTransport serves requests on the provided transport.
func (service *Server) RunTransport(ctx context.Context, transport sdk.Transport) error {
	service.logger.Debug("starting mcp server", zap.Bool("collect", service.config.Collect != nil), zap.Bool("generate", service.config.Generate != nil))
	return service.server.Run(ctx, transport)
}

// Connect attaches the server to a single transport and returns the session.
func (service *Server) Connect(ctx context.Context, transport sdk.Transport) (*sdk.ServerSession, error) {
	return service.server.Connect(ctx, transport, nil)
}

func (service *Server) handleCollect(ctx context.Context, request *sdk.CallToolRequest, input CollectInput) (*sdk.CallToolResult, CollectOutput, error) {
	input.Path = strings.TrimSpace(input.Path)
	if input.Path == "" {
		return &sdk.CallToolResult{IsError: true}, CollectOutput{}, ErrMissingPath
	}
	result, executeError := service.config.Collect(ctx, input)
	if executeError != nil {
		service.logger.Warn(logToolFailed, zap.String("tool", ToolCollectRepository), zap.String("path", input.Path), zap.Error(executeError))
		return &sdk.CallToolResult{IsError: true}, CollectOutput{}, executeError
	}
	return nil, result, nil
}

func (service *Server) handleGenerate(ctx context.Context, request *sdk.CallToolRequest, input GenerateInput) (*sdk.CallToolResult, GenerateOutput, error) {
	input.Input = strings.TrimSpace(input.Input)
	if input.Input == "" {
		return &sdk.CallToolResult{IsError: true}, GenerateOutput{}, ErrMissingPath
	}
	result, executeError := service.config.Generate(ctx, input)
	if executeError != nil {
		service.logger.Warn(logToolFailed, zap.String("tool", ToolGenerateReadme), zap.String("input", input.Input), zap.Error(executeError))
		return &sdk.CallToolResult{IsError: true}, GenerateOutput{}, executeError
	}
	return nil, result, nil
}
