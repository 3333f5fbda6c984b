// Package source materializes the repository to document: a local directory,
// an extracted zip archive or a shallow git clone.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/readmegen/internal/utils"
)

const (
	archiveExtension = ".zip"

	errorUnsupportedSourceFormat = "%w: %s"
	errorUnsafeWorkspaceFormat   = "%w: %s"
	errorPrepareWorkspaceFormat  = "preparing workspace %s: %w"
)

var (
	// ErrUnsupportedSource is returned when the input is neither a directory, a zip archive nor a git URL.
	ErrUnsupportedSource = errors.New("unsupported repository source")
	// ErrUnsafeWorkspace is returned when cleaning the workspace would remove the
	// filesystem root, the home directory, the working directory or the input itself.
	ErrUnsafeWorkspace = errors.New("refusing to clean workspace")
)

// Kind identifies how a source was materialized.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindArchive   Kind = "archive"
	KindGit       Kind = "git"
)

// Options configures materialization.
type Options struct {
	Workspace string
	Clean     bool
	Token     string
	Logger    *zap.Logger
}

// Repository is a materialized repository root.
type Repository struct {
	Kind Kind
	Root string
}

// Resolve turns input into a repository root. An existing directory is used in
// place, a .zip file is extracted into the workspace and a git URL is cloned
// into it. Nothing is traversed when materialization fails.
func Resolve(ctx context.Context, input string, options Options) (Repository, error) {
	logger := utils.LoggerOrNop(options.Logger)
	trimmedInput := strings.TrimSpace(input)

	if info, statError := os.Stat(trimmedInput); statError == nil {
		if info.IsDir() {
			return Repository{Kind: KindDirectory, Root: trimmedInput}, nil
		}
		if strings.EqualFold(filepath.Ext(trimmedInput), archiveExtension) {
			logger.Info("extracting archive", zap.String("archive", trimmedInput), zap.String("workspace", options.Workspace))
			root, extractError := Extract(trimmedInput, options.Workspace, options.Clean)
			if extractError != nil {
				return Repository{}, extractError
			}
			return Repository{Kind: KindArchive, Root: root}, nil
		}
		return Repository{}, fmt.Errorf(errorUnsupportedSourceFormat, ErrUnsupportedSource, trimmedInput)
	}

	if IsGitURL(trimmedInput) {
		logger.Info("cloning repository", zap.String("url", RedactURL(trimmedInput)), zap.String("workspace", options.Workspace))
		root, cloneError := Clone(ctx, trimmedInput, options.Workspace, options.Clean, options.Token)
		if cloneError != nil {
			return Repository{}, cloneError
		}
		return Repository{Kind: KindGit, Root: root}, nil
	}
	return Repository{}, fmt.Errorf(errorUnsupportedSourceFormat, ErrUnsupportedSource, trimmedInput)
}

// prepareWorkspace creates the workspace, removing it first when clean is set.
// protectedPaths must survive the removal.
func prepareWorkspace(workspace string, clean bool, protectedPaths ...string) (string, error) {
	absoluteWorkspace, absoluteError := filepath.Abs(workspace)
	if absoluteError != nil {
		return "", fmt.Errorf(errorPrepareWorkspaceFormat, workspace, absoluteError)
	}
	if clean {
		if unsafeError := checkCleanable(absoluteWorkspace, protectedPaths); unsafeError != nil {
			return "", unsafeError
		}
		if removeError := os.RemoveAll(absoluteWorkspace); removeError != nil {
			return "", fmt.Errorf(errorPrepareWorkspaceFormat, absoluteWorkspace, removeError)
		}
	}
	if mkdirError := os.MkdirAll(absoluteWorkspace, 0o755); mkdirError != nil {
		return "", fmt.Errorf(errorPrepareWorkspaceFormat, absoluteWorkspace, mkdirError)
	}
	return absoluteWorkspace, nil
}

func checkCleanable(absoluteWorkspace string, protectedPaths []string) error {
	forbidden := []string{string(filepath.Separator)}
	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil {
		forbidden = append(forbidden, homeDirectory)
	}
	if workingDirectory, workingError := os.Getwd(); workingError == nil {
		forbidden = append(forbidden, workingDirectory)
	}
	for _, forbiddenPath := range forbidden {
		if filepath.Clean(forbiddenPath) == absoluteWorkspace || isWithin(forbiddenPath, absoluteWorkspace) {
			return fmt.Errorf(errorUnsafeWorkspaceFormat, ErrUnsafeWorkspace, absoluteWorkspace)
		}
	}
	for _, protectedPath := range protectedPaths {
		absoluteProtected, protectedError := filepath.Abs(protectedPath)
		if protectedError != nil {
			continue
		}
		if absoluteProtected == absoluteWorkspace || isWithin(absoluteProtected, absoluteWorkspace) {
			return fmt.Errorf(errorUnsafeWorkspaceFormat, ErrUnsafeWorkspace, absoluteWorkspace)
		}
	}
	return nil
}

// isWithin reports whether candidate is strictly inside directory.
func isWithin(candidate string, directory string) bool {
	relativePath, relativeError := filepath.Rel(directory, candidate)
	if relativeError != nil {
		return false
	}
	return relativePath != "." && relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) && !filepath.IsAbs(relativePath)
}
