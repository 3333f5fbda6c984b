// Package commands implements the tree walk, file collection, summarization
// and README generation pipeline behind the readmegen CLI.
package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/readmegen/internal/config"
	"github.com/temirov/readmegen/internal/tokenizer"
	"github.com/temirov/readmegen/internal/types"
	"github.com/temirov/readmegen/internal/utils"
)

const (
	directoryGlyph    = "📂"
	fileGlyph         = "📄"
	indentUnit        = "   "
	treeLineSeparator = "\n"

	errorReadDirectoryFormat    = "reading directory %s: %w"
	errorStatRootFormat         = "inspecting root %s: %w"
	errorRootNotDirectoryFormat = "%w: %s"

	warningSkipDirectory = "skipping unreadable directory"
	warningSkipFile      = "skipping unreadable file"
	warningCountTokens   = "failed to count tokens"
)

// ErrRootNotDirectory is returned when the collection root is missing or is not a directory.
var ErrRootNotDirectory = errors.New("collection root is not a directory")

// CollectOptions configures a single traversal.
type CollectOptions struct {
	Patterns      config.PatternSet
	Matcher       string
	Extensions    []string
	MaxCharacters int
	TokenCounter  tokenizer.Counter
	Logger        *zap.Logger
}

type pendingEntry struct {
	entry Entry
	depth int
}

// Collect walks rootPath depth-first in lexicographic order and returns the
// rendered tree text together with the records of every allow-listed file.
// Entries whose bare name is matched by an ignore pattern are skipped along
// with their whole subtree. Unreadable files and directories below the root
// are logged and skipped; only a root that cannot be listed is an error.
func Collect(rootPath string, options CollectOptions) (types.CollectedOutput, error) {
	logger := utils.LoggerOrNop(options.Logger)

	rootInfo, statError := os.Stat(rootPath)
	if statError != nil {
		return types.CollectedOutput{}, fmt.Errorf(errorStatRootFormat, rootPath, errors.Join(ErrRootNotDirectory, statError))
	}
	if !rootInfo.IsDir() {
		return types.CollectedOutput{}, fmt.Errorf(errorRootNotDirectoryFormat, ErrRootNotDirectory, rootPath)
	}

	matcher, matcherError := NewMatcher(options.Matcher, options.Patterns)
	if matcherError != nil {
		return types.CollectedOutput{}, matcherError
	}
	extensions := make(map[string]struct{}, len(options.Extensions))
	for _, extension := range utils.NormalizeExtensions(options.Extensions) {
		extensions[extension] = struct{}{}
	}

	rootEntries, listError := listDirectory(rootPath, "")
	if listError != nil {
		return types.CollectedOutput{}, listError
	}

	traversal := &collection{
		matcher:       matcher,
		extensions:    extensions,
		maxCharacters: options.MaxCharacters,
		counter:       options.TokenCounter,
		logger:        logger,
		records:       []types.FileRecord{},
	}

	stack := make([]pendingEntry, 0, len(rootEntries))
	stack = pushReversed(stack, rootEntries, 0)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if matcher.Matches(current.entry) {
			logger.Debug("ignored entry", zap.String("path", current.entry.RelativePath))
			continue
		}

		switch current.entry.Kind {
		case EntryDirectory:
			traversal.appendDirectoryLine(current)
			children, childError := listDirectory(current.entry.Path, current.entry.RelativePath)
			if childError != nil {
				logger.Warn(warningSkipDirectory, zap.String("path", current.entry.RelativePath), zap.Error(childError))
				continue
			}
			stack = pushReversed(stack, children, current.depth+1)
		case EntryFile:
			traversal.visitFile(current)
		}
	}

	return types.CollectedOutput{
		Root:     rootPath,
		TreeText: strings.Join(traversal.lines, treeLineSeparator),
		Records:  traversal.records,
	}, nil
}

// pushReversed pushes entries so that the lexicographically first one is popped first.
func pushReversed(stack []pendingEntry, entries []Entry, depth int) []pendingEntry {
	for index := len(entries) - 1; index >= 0; index-- {
		stack = append(stack, pendingEntry{entry: entries[index], depth: depth})
	}
	return stack
}

// collection holds the accumulators of one Collect call.
type collection struct {
	matcher       Matcher
	extensions    map[string]struct{}
	maxCharacters int
	counter       tokenizer.Counter
	logger        *zap.Logger

	lines   []string
	records []types.FileRecord
}

func (traversal *collection) appendDirectoryLine(current pendingEntry) {
	traversal.lines = append(traversal.lines, fmt.Sprintf("%s%s %s/", indentation(current.depth), directoryGlyph, current.entry.Name))
}

func (traversal *collection) visitFile(current pendingEntry) {
	extension := current.entry.Extension()
	if extension == "" {
		return
	}
	if _, allowed := traversal.extensions[extension]; !allowed {
		return
	}

	// #nosec G304
	data, readError := os.ReadFile(current.entry.Path)
	if readError != nil {
		traversal.logger.Warn(warningSkipFile, zap.String("path", current.entry.RelativePath), zap.Error(readError))
		return
	}

	content, truncated := utils.TruncateCharacters(utils.DecodeText(data), traversal.maxCharacters)
	record := types.FileRecord{
		Name:      current.entry.Name,
		Path:      current.entry.RelativePath,
		Content:   content,
		Truncated: truncated,
		SizeBytes: int64(len(data)),
	}
	if traversal.counter != nil {
		tokens, countError := tokenizer.CountText(traversal.counter, content)
		if countError != nil {
			traversal.logger.Warn(warningCountTokens, zap.String("path", record.Path), zap.Error(countError))
		} else {
			record.Tokens = tokens
		}
	}

	traversal.records = append(traversal.records, record)
	traversal.lines = append(traversal.lines, fmt.Sprintf("%s %s %s", indentation(current.depth), fileGlyph, current.entry.Name))
}

func indentation(depth int) string {
	return strings.Repeat(indentUnit, depth)
}
