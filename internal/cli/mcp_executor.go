package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/readmegen/internal/output"
	"github.com/temirov/readmegen/internal/services/mcp"
	"github.com/temirov/readmegen/internal/types"
	"github.com/temirov/readmegen/internal/utils"
)

const (
	mcpUse              = "mcp"
	mcpShortDescription = "serve collect_repository and generate_readme over MCP stdio"
	mcpLongDescription  = `Run a Model Context Protocol server on stdin and stdout.
Tools default to the loaded configuration; the model key must be present in
the environment or .env because stdio cannot be used for prompting.`
)

func (app *application) newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   mcpUse,
		Short: mcpShortDescription,
		Long:  mcpLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			server, serverError := app.newMCPServer()
			if serverError != nil {
				return serverError
			}
			return server.Run(command.Context())
		},
	}
}

func (app *application) newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(mcp.Config{
		Version:  utils.GetApplicationVersion(),
		Collect:  app.executeCollectTool,
		Generate: app.executeGenerateTool,
		Logger:   app.logger,
	})
}

// toolCollectSettings layers tool arguments over configuration the way flags do.
func (app *application) toolCollectSettings(input mcp.CollectInput) collectSettings {
	extensions, maxChars, matcher, useGitignore := app.configuration.ResolvedCollect()
	settings := collectSettings{
		root:         app.resolveInputPath(input.Path),
		format:       app.configuration.Output.Format,
		extensions:   extensions,
		maxChars:     maxChars,
		matcher:      matcher,
		useGitignore: useGitignore && !input.NoGitignore,
		exclude:      append(append([]string{}, app.configuration.Collect.Exclude...), input.Exclude...),
		tokens:       input.Tokens,
	}
	if input.Format != "" {
		settings.format = input.Format
	}
	if input.Matcher != "" {
		settings.matcher = input.Matcher
	}
	if input.MaxChars > 0 {
		settings.maxChars = input.MaxChars
	}
	settings.format = strings.ToLower(strings.TrimSpace(settings.format))
	if settings.format == "" {
		settings.format = types.FormatRaw
	}
	return settings
}

func (app *application) executeCollectTool(ctx context.Context, input mcp.CollectInput) (mcp.CollectOutput, error) {
	settings := app.toolCollectSettings(input)
	collected, summary, collectError := app.runCollection(settings)
	if collectError != nil {
		return mcp.CollectOutput{}, collectError
	}
	rendered, renderError := output.RenderCollection(settings.format, collected, &summary)
	if renderError != nil {
		return mcp.CollectOutput{}, renderError
	}
	return mcp.CollectOutput{
		Root:   collected.Root,
		Format: settings.format,
		Files:  len(collected.Records),
		Output: rendered,
	}, nil
}

func (app *application) executeGenerateTool(ctx context.Context, input mcp.GenerateInput) (mcp.GenerateOutput, error) {
	request := generateRequest{
		input:     app.resolveGenerateInput(input.Input),
		settings:  app.toolCollectSettings(mcp.CollectInput{Path: input.Input}),
		summarize: app.configuration.SummaryEnabled(),
	}
	if input.Summarize != nil {
		request.summarize = *input.Summarize
	}
	result, generateError := app.runGenerate(ctx, request, false)
	if generateError != nil {
		return mcp.GenerateOutput{}, generateError
	}
	return mcp.GenerateOutput{
		Root:    result.Repository.Root,
		Files:   len(result.Collected.Records),
		Dropped: result.Dropped,
		Readme:  result.Readme,
	}, nil
}
