package commands

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/readmegen/internal/discover"
	"github.com/temirov/readmegen/internal/docs"
	"github.com/temirov/readmegen/internal/prompt"
	"github.com/temirov/readmegen/internal/services/llm"
	"github.com/temirov/readmegen/internal/services/source"
	"github.com/temirov/readmegen/internal/tokenizer"
	"github.com/temirov/readmegen/internal/types"
	"github.com/temirov/readmegen/internal/utils"
)

const (
	warningOutlineFailed   = "failed to outline file"
	warningManifestsFailed = "failed to read dependency manifests"
)

// GenerateOptions configures GenerateReadme.
type GenerateOptions struct {
	Input           string
	Source          source.Options
	UseGitignore    bool
	ExtraPatterns   []string
	Matcher         string
	Extensions      []string
	MaxCharacters   int
	Summarize       bool
	Concurrency     int
	MaxPromptTokens int
	TokenCounter    tokenizer.Counter
	Completer       llm.Completer
	Logger          *zap.Logger
}

// GenerateResult holds the README and the intermediate artifacts it was built from.
type GenerateResult struct {
	Repository source.Repository
	Collected  types.CollectedOutput
	Manifests  []discover.Manifest
	Prompt     string
	Dropped    int
	Readme     string
}

// GenerateReadme materializes the input, collects its files, optionally
// summarizes them, and asks the model for a README. Materialization failures
// abort before any traversal happens.
func GenerateReadme(ctx context.Context, options GenerateOptions) (GenerateResult, error) {
	if options.Completer == nil {
		return GenerateResult{}, ErrMissingCompleter
	}
	logger := utils.LoggerOrNop(options.Logger)
	sourceOptions := options.Source
	sourceOptions.Logger = logger

	repository, resolveError := source.Resolve(ctx, options.Input, sourceOptions)
	if resolveError != nil {
		return GenerateResult{}, resolveError
	}
	result := GenerateResult{Repository: repository}

	patterns, patternError := LoadPatterns(repository.Root, options.UseGitignore, options.ExtraPatterns, logger)
	if patternError != nil {
		return result, patternError
	}
	collected, collectError := Collect(repository.Root, CollectOptions{
		Patterns:      patterns,
		Matcher:       options.Matcher,
		Extensions:    options.Extensions,
		MaxCharacters: options.MaxCharacters,
		TokenCounter:  options.TokenCounter,
		Logger:        logger,
	})
	if collectError != nil {
		return result, collectError
	}
	logger.Info("collected repository", zap.String("root", repository.Root), zap.Int("files", len(collected.Records)))

	collected.Records = OutlineRecords(repository.Root, collected.Records, logger)

	manifests, manifestError := discover.Detect(repository.Root, discover.Options{IncludeDev: true})
	if manifestError != nil {
		logger.Warn(warningManifestsFailed, zap.Error(manifestError))
	}
	result.Manifests = manifests

	if options.Summarize {
		summarized, summarizeError := SummarizeRecords(ctx, collected.Records, options.Completer, SummarizeOptions{
			Concurrency: options.Concurrency,
			Logger:      logger,
		})
		if summarizeError != nil {
			return result, summarizeError
		}
		collected.Records = summarized
	}
	result.Collected = collected

	readmePrompt, dropped, fitError := prompt.FitToBudget(prompt.Input{
		ProjectName: projectName(repository.Root),
		TreeText:    collected.TreeText,
		Records:     collected.Records,
		Manifests:   manifests,
	}, options.TokenCounter, options.MaxPromptTokens)
	if fitError != nil {
		return result, fitError
	}
	if dropped > 0 {
		logger.Warn("dropped files to fit the prompt budget", zap.Int("dropped", dropped), zap.Int("budget", options.MaxPromptTokens))
	}
	result.Prompt = readmePrompt
	result.Dropped = dropped

	readme, completeError := options.Completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.ReadmeSystemPrompt},
		{Role: llm.RoleUser, Content: readmePrompt},
	})
	if completeError != nil {
		return result, completeError
	}
	result.Readme = strings.TrimSpace(readme) + "\n"
	return result, nil
}

// OutlineRecords attaches declaration outlines to the records of supported languages.
func OutlineRecords(rootPath string, records []types.FileRecord, logger *zap.Logger) []types.FileRecord {
	logger = utils.LoggerOrNop(logger)
	collector := docs.NewCollector(rootPath)
	outlined := append([]types.FileRecord(nil), records...)
	for index := range outlined {
		if !collector.Supports(outlined[index].Name) {
			continue
		}
		entries, outlineError := collector.Outline(outlined[index])
		if outlineError != nil {
			logger.Warn(warningOutlineFailed, zap.String("path", outlined[index].Path), zap.Error(outlineError))
			continue
		}
		outlined[index].Outline = entries
	}
	return outlined
}

func projectName(rootPath string) string {
	absoluteRoot, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		return filepath.Base(rootPath)
	}
	return filepath.Base(absoluteRoot)
}
