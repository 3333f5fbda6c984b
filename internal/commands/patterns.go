package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/readmegen/internal/config"
)

// LoadPatterns returns the ignore patterns for rootPath: the lines of its
// .gitignore when useGitignore is set, plus the extra patterns.
func LoadPatterns(rootPath string, useGitignore bool, extraPatterns []string, logger *zap.Logger) (config.PatternSet, error) {
	patterns := config.NewPatternSet()
	if useGitignore {
		loaded, loadError := config.LoadIgnorePatterns(rootPath, logger)
		if loadError != nil {
			return config.PatternSet{}, loadError
		}
		patterns = loaded
	}
	return patterns.With(extraPatterns...), nil
}
