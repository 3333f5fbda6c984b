package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/readmegen/internal/commands"
	"github.com/temirov/readmegen/internal/output"
	"github.com/temirov/readmegen/internal/tokenizer"
	"github.com/temirov/readmegen/internal/types"
)

const (
	defaultPath = "."

	exclusionFlagName   = "e"
	noGitignoreFlagName = "no-gitignore"
	formatFlagName      = "format"
	maxCharsFlagName    = "max-chars"
	matcherFlagName     = "matcher"
	tokensFlagName      = "tokens"
	copyFlagName        = "copy"

	exclusionFlagDescription   = "additional ignore pattern (repeatable)"
	noGitignoreFlagDescription = "do not read the root .gitignore"
	formatFlagDescription      = "output format: raw, json or yaml"
	maxCharsFlagDescription    = "per-file character limit (0 disables truncation)"
	matcherFlagDescription     = "ignore matcher: substring or glob"
	tokensFlagDescription      = "count tokens of every collected file"
	copyFlagDescription        = "copy the output to the system clipboard"

	treeUse              = "tree [path]"
	treeAlias            = "t"
	treeShortDescription = "display the directory tree (" + treeAlias + ")"
	treeLongDescription  = `Render the filtered directory tree of a local repository.
Entries matched by .gitignore patterns or -e patterns are skipped with their subtrees.`
	treeUsageExample = `  # Render the tree of the current directory
  readmegen tree

  # Exclude build output using glob patterns
  readmegen tree --matcher glob -e "dist/" ./service`

	collectUse              = "collect [path]"
	collectAlias            = "c"
	collectShortDescription = "display the tree and file contents (" + collectAlias + ")"
	collectLongDescription  = `Render the directory tree followed by the content of every allow-listed file.
This is the material generate sends to the model.`
	collectUsageExample = `  # Show collected files as YAML with token counts
  readmegen collect --format yaml --tokens .

  # Raise the per-file limit and copy the result
  readmegen collect --max-chars 20000 --copy ./app`

	warningCopyFailed = "failed to copy output to clipboard"
)

// collectFlags holds the flag values shared by tree, collect and generate.
type collectFlags struct {
	format      string
	maxChars    int
	matcher     string
	noGitignore bool
	exclude     []string
	tokens      bool
	copy        bool
}

// collectSettings are flags layered over configuration for one collection.
type collectSettings struct {
	root         string
	format       string
	extensions   []string
	maxChars     int
	matcher      string
	useGitignore bool
	exclude      []string
	tokens       bool
}

func addPathFlags(command *cobra.Command, flags *collectFlags) {
	command.Flags().StringArrayVarP(&flags.exclude, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerBooleanFlag(command.Flags(), &flags.noGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	command.Flags().StringVar(&flags.matcher, matcherFlagName, "", matcherFlagDescription)
}

func (app *application) newTreeCommand() *cobra.Command {
	var flags collectFlags
	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings := app.resolveCollectSettings(command, flags, firstArgument(arguments))
			collected, _, collectError := app.runCollection(settings)
			if collectError != nil {
				return collectError
			}
			rendered, renderError := output.RenderTree(settings.format, collected)
			if renderError != nil {
				return renderError
			}
			return app.emit(command.OutOrStdout(), rendered, app.copyRequested(command, flags))
		},
	}
	addPathFlags(treeCommand, &flags)
	treeCommand.Flags().StringVar(&flags.format, formatFlagName, "", formatFlagDescription)
	registerBooleanFlag(treeCommand.Flags(), &flags.copy, copyFlagName, false, copyFlagDescription)
	return treeCommand
}

func (app *application) newCollectCommand() *cobra.Command {
	var flags collectFlags
	collectCommand := &cobra.Command{
		Use:     collectUse,
		Aliases: []string{collectAlias},
		Short:   collectShortDescription,
		Long:    collectLongDescription,
		Example: collectUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings := app.resolveCollectSettings(command, flags, firstArgument(arguments))
			collected, summary, collectError := app.runCollection(settings)
			if collectError != nil {
				return collectError
			}
			rendered, renderError := output.RenderCollection(settings.format, collected, &summary)
			if renderError != nil {
				return renderError
			}
			return app.emit(command.OutOrStdout(), rendered, app.copyRequested(command, flags))
		},
	}
	addPathFlags(collectCommand, &flags)
	collectCommand.Flags().StringVar(&flags.format, formatFlagName, "", formatFlagDescription)
	collectCommand.Flags().IntVar(&flags.maxChars, maxCharsFlagName, 0, maxCharsFlagDescription)
	registerBooleanFlag(collectCommand.Flags(), &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	registerBooleanFlag(collectCommand.Flags(), &flags.copy, copyFlagName, false, copyFlagDescription)
	return collectCommand
}

// resolveCollectSettings starts from configuration and applies every flag the user set.
func (app *application) resolveCollectSettings(command *cobra.Command, flags collectFlags, path string) collectSettings {
	extensions, maxChars, matcher, useGitignore := app.configuration.ResolvedCollect()
	settings := collectSettings{
		root:         app.resolveInputPath(path),
		format:       app.configuration.Output.Format,
		extensions:   extensions,
		maxChars:     maxChars,
		matcher:      matcher,
		useGitignore: useGitignore,
		exclude:      append([]string{}, app.configuration.Collect.Exclude...),
	}
	changed := func(name string) bool {
		lookup := command.Flags().Lookup(name)
		return lookup != nil && lookup.Changed
	}
	if changed(formatFlagName) {
		settings.format = flags.format
	}
	if changed(maxCharsFlagName) {
		settings.maxChars = flags.maxChars
	}
	if changed(matcherFlagName) {
		settings.matcher = flags.matcher
	}
	if changed(noGitignoreFlagName) {
		settings.useGitignore = !flags.noGitignore
	}
	settings.exclude = append(settings.exclude, flags.exclude...)
	settings.tokens = flags.tokens
	settings.format = strings.ToLower(strings.TrimSpace(settings.format))
	if settings.format == "" {
		settings.format = types.FormatRaw
	}
	return settings
}

// runCollection loads the ignore patterns and walks the root. The returned
// summary names the tokenizer encoding when token counting was requested.
func (app *application) runCollection(settings collectSettings) (types.CollectedOutput, types.OutputSummary, error) {
	if formatError := output.ValidateFormat(settings.format); formatError != nil {
		return types.CollectedOutput{}, types.OutputSummary{}, formatError
	}
	patterns, patternError := commands.LoadPatterns(settings.root, settings.useGitignore, settings.exclude, app.logger)
	if patternError != nil {
		return types.CollectedOutput{}, types.OutputSummary{}, patternError
	}

	var counter tokenizer.Counter
	var encodingName string
	if settings.tokens {
		createdCounter, resolvedName, counterError := app.resolveTokenCounter()
		if counterError != nil {
			return types.CollectedOutput{}, types.OutputSummary{}, counterError
		}
		counter = createdCounter
		encodingName = resolvedName
	}

	collected, collectError := commands.Collect(settings.root, commands.CollectOptions{
		Patterns:      patterns,
		Matcher:       settings.matcher,
		Extensions:    settings.extensions,
		MaxCharacters: settings.maxChars,
		TokenCounter:  counter,
		Logger:        app.logger,
	})
	if collectError != nil {
		return types.CollectedOutput{}, types.OutputSummary{}, collectError
	}
	app.logger.Debug("collected repository", zap.String("root", settings.root), zap.Int("files", len(collected.Records)))
	return collected, output.Summarize(collected.Records, encodingName), nil
}

func (app *application) copyRequested(command *cobra.Command, flags collectFlags) bool {
	if lookup := command.Flags().Lookup(copyFlagName); lookup != nil && lookup.Changed {
		return flags.copy
	}
	return app.configuration.Output.Clipboard != nil && *app.configuration.Output.Clipboard
}

// emit writes rendered output and optionally mirrors it to the clipboard.
// Clipboard failures are logged, the printed output stands.
func (app *application) emit(writer io.Writer, rendered string, copyToClipboard bool) error {
	if _, writeError := io.WriteString(writer, rendered); writeError != nil {
		return fmt.Errorf("writing output: %w", writeError)
	}
	if copyToClipboard {
		if copyError := app.copier.Copy(rendered); copyError != nil {
			app.logger.Warn(warningCopyFailed, zap.Error(copyError))
		}
	}
	return nil
}

func firstArgument(arguments []string) string {
	if len(arguments) == 0 {
		return defaultPath
	}
	return arguments[0]
}
