package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/readmegen/internal/commands"
	"github.com/temirov/readmegen/internal/services/source"
)

const (
	generateUse              = "generate <directory|archive.zip|git-url>"
	generateAlias            = "g"
	generateShortDescription = "generate a README with the language model (" + generateAlias + ")"
	generateLongDescription  = `Materialize a local directory, a .zip archive or a git repository, collect
its files and ask the configured model for a README.
The model key is read from GROQ_API_KEY (environment or .env); when it is
missing and stdin is a terminal you are prompted for it.`
	generateUsageExample = `  # Write a README for a cloned repository
  readmegen generate https://github.com/owner/project.git --output README.md

  # Summarize every file first to fit large projects into the prompt
  readmegen generate --summarize project.zip`

	summarizeFlagName        = "summarize"
	summarizeFlagDescription = "summarize every file with the model before writing the README"
	outputFlagName           = "output"
	outputFlagShorthand      = "o"
	outputFlagDescription    = "write the README to this file instead of stdout"

	readmeFilePermissions = 0o644

	errorWriteReadmeFormat = "writing README to %s: %w"
)

// generateRequest is one README run after flags and configuration are merged.
type generateRequest struct {
	input     string
	settings  collectSettings
	summarize bool
}

func (app *application) newGenerateCommand() *cobra.Command {
	var flags collectFlags
	var summarize bool
	var outputPath string

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			request := generateRequest{
				input:     app.resolveGenerateInput(arguments[0]),
				settings:  app.resolveCollectSettings(command, flags, arguments[0]),
				summarize: app.configuration.SummaryEnabled(),
			}
			if lookup := command.Flags().Lookup(summarizeFlagName); lookup != nil && lookup.Changed {
				request.summarize = summarize
			}

			result, generateError := app.runGenerate(command.Context(), request, true)
			if generateError != nil {
				return generateError
			}

			copyToClipboard := app.copyRequested(command, flags)
			if outputPath == "" {
				return app.emit(command.OutOrStdout(), result.Readme, copyToClipboard)
			}
			destination := app.resolveInputPath(outputPath)
			if writeError := os.WriteFile(destination, []byte(result.Readme), readmeFilePermissions); writeError != nil {
				return fmt.Errorf(errorWriteReadmeFormat, destination, writeError)
			}
			app.logger.Info("wrote README", zap.String("path", destination), zap.Int("files", len(result.Collected.Records)))
			return app.emit(io.Discard, result.Readme, copyToClipboard)
		},
	}
	addPathFlags(generateCommand, &flags)
	generateCommand.Flags().IntVar(&flags.maxChars, maxCharsFlagName, 0, maxCharsFlagDescription)
	registerBooleanFlag(generateCommand.Flags(), &summarize, summarizeFlagName, false, summarizeFlagDescription)
	generateCommand.Flags().StringVarP(&outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	registerBooleanFlag(generateCommand.Flags(), &flags.copy, copyFlagName, false, copyFlagDescription)
	return generateCommand
}

// resolveGenerateInput anchors local paths at the working directory and leaves git URLs untouched.
func (app *application) resolveGenerateInput(input string) string {
	if source.IsGitURL(input) {
		return input
	}
	return app.resolveInputPath(input)
}

// runGenerate builds the model client and runs the README pipeline.
func (app *application) runGenerate(ctx context.Context, request generateRequest, interactive bool) (commands.GenerateResult, error) {
	completer, completerError := app.resolveCompleter(interactive)
	if completerError != nil {
		return commands.GenerateResult{}, completerError
	}
	counter, encodingName, counterError := app.resolveTokenCounter()
	if counterError != nil {
		return commands.GenerateResult{}, counterError
	}
	app.logger.Debug("generating README", zap.String("input", source.RedactURL(request.input)), zap.String("encoding", encodingName), zap.Bool("summarize", request.summarize))

	workspace := app.configuration.WorkspaceDirectory()
	if !filepath.IsAbs(workspace) {
		workspace = filepath.Join(app.workingDirectory, workspace)
	}
	return commands.GenerateReadme(ctx, commands.GenerateOptions{
		Input: request.input,
		Source: source.Options{
			Workspace: workspace,
			Clean:     app.configuration.WorkspaceClean(),
			Token:     app.credentials.githubToken(),
		},
		UseGitignore:    request.settings.useGitignore,
		ExtraPatterns:   request.settings.exclude,
		Matcher:         request.settings.matcher,
		Extensions:      request.settings.extensions,
		MaxCharacters:   request.settings.maxChars,
		Summarize:       request.summarize,
		Concurrency:     app.configuration.SummaryConcurrency(),
		MaxPromptTokens: app.configuration.MaxPromptTokens(),
		TokenCounter:    counter,
		Completer:       completer,
		Logger:          app.logger,
	})
}
