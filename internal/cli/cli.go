// Package cli provides the readmegen command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/readmegen/internal/config"
	"github.com/temirov/readmegen/internal/services/clipboard"
	"github.com/temirov/readmegen/internal/services/llm"
	"github.com/temirov/readmegen/internal/tokenizer"
	"github.com/temirov/readmegen/internal/utils"
)

const (
	rootUse              = "readmegen"
	rootShortDescription = "generate READMEs from repository contents"
	rootLongDescription  = `readmegen walks a repository, collects the content of its source files
and asks a language model to write a README for it.
Use tree and collect to inspect what would be sent, generate to produce the
README, and mcp to expose both operations to MCP clients over stdio.`

	configFlagName        = "config"
	configFlagDescription = "path to a local configuration file (default ./" + utils.ConfigFileName + ")"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
)

// Dependencies are the collaborators injected into the command tree. Nil
// fields fall back to the system clipboard, a chat-completions client built
// from configuration, a tiktoken counter for the configured model and the
// process working directory.
type Dependencies struct {
	Logger           *zap.Logger
	Copier           clipboard.Copier
	Completer        llm.Completer
	TokenCounter     tokenizer.Counter
	WorkingDirectory string
}

type application struct {
	logger            *zap.Logger
	copier            clipboard.Copier
	completer         llm.Completer
	tokenCounter      tokenizer.Counter
	credentials       credentialSource
	workingDirectory  string
	configurationPath string
	configuration     config.ApplicationConfiguration
}

// Execute runs the readmegen application.
func Execute(ctx context.Context, dependencies Dependencies) error {
	rootCommand := NewRootCommand(dependencies)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return fang.Execute(
		ctx,
		rootCommand,
		fang.WithVersion(utils.GetApplicationVersion()),
		fang.WithoutManpage(),
	)
}

// NewRootCommand builds the root Cobra command with every subcommand attached.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	app := &application{
		logger:           utils.LoggerOrNop(dependencies.Logger),
		copier:           dependencies.Copier,
		completer:        dependencies.Completer,
		tokenCounter:     dependencies.TokenCounter,
		credentials:      newCredentialSource(os.Stderr),
		workingDirectory: dependencies.WorkingDirectory,
	}
	if app.copier == nil {
		app.copier = clipboard.NewService()
	}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return app.prepare()
		},
	}
	rootCommand.PersistentFlags().StringVar(&app.configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		app.newTreeCommand(),
		app.newCollectCommand(),
		app.newGenerateCommand(),
		app.newMCPCommand(),
		app.newInitCommand(),
	)
	return rootCommand
}

// prepare loads .env and the layered configuration before any command runs.
func (app *application) prepare() error {
	if app.workingDirectory == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
		}
		app.workingDirectory = workingDirectory
	}
	if environmentError := loadEnvironmentFile(filepath.Join(app.workingDirectory, utils.EnvironmentFileName), app.logger); environmentError != nil {
		return environmentError
	}
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: app.workingDirectory,
		ExplicitFilePath: app.configurationPath,
	})
	if configurationError != nil {
		return configurationError
	}
	app.configuration = configuration
	return nil
}

// resolveCompleter returns the injected completer or a client built from
// configuration. Interactive resolution may prompt for the API key.
func (app *application) resolveCompleter(interactive bool) (llm.Completer, error) {
	if app.completer != nil {
		return app.completer, nil
	}
	credentials := app.credentials
	if !interactive {
		credentials = credentials.nonInteractive()
	}
	apiKey, keyError := credentials.apiKey()
	if keyError != nil {
		return nil, keyError
	}
	return llm.NewClient(nil).
		WithBaseURL(app.configuration.ModelBaseURL()).
		WithModel(app.configuration.ModelName()).
		WithTimeout(time.Duration(app.configuration.ModelTimeoutSeconds()) * time.Second).
		WithAPIKey(apiKey), nil
}

// resolveTokenCounter returns the injected counter or one for the configured
// model, together with the encoding name reported in summaries.
func (app *application) resolveTokenCounter() (tokenizer.Counter, string, error) {
	if app.tokenCounter != nil {
		return app.tokenCounter, app.tokenCounter.Name(), nil
	}
	return tokenizer.NewCounter(app.configuration.ModelName())
}

// resolveInputPath anchors a relative path argument at the working directory.
func (app *application) resolveInputPath(input string) string {
	if input == "" {
		input = defaultPath
	}
	if filepath.IsAbs(input) || app.workingDirectory == "" {
		return filepath.Clean(input)
	}
	return filepath.Join(app.workingDirectory, input)
}
