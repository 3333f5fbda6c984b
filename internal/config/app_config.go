package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/readmegen/internal/utils"
)

// Defaults applied when neither configuration files nor flags provide a value.
const (
	DefaultMaxCharacters   = 5000
	DefaultModelBaseURL    = "https://api.groq.com/openai/v1"
	DefaultModelName       = "llama-3.3-70b-versatile"
	DefaultTimeoutSeconds  = 120
	DefaultMaxPromptTokens = 24000
	DefaultWorkspace       = "unzipped_folder"
	DefaultConcurrency     = 1
)

// DefaultExtensions is the allow-list of collected file extensions.
var DefaultExtensions = []string{"py", "tsx", "jsx", "ts", "js", "txt"}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds every configurable default of the CLI.
type ApplicationConfiguration struct {
	Collect   CollectConfiguration   `mapstructure:"collect"`
	Model     ModelConfiguration     `mapstructure:"model"`
	Summary   SummaryConfiguration   `mapstructure:"summary"`
	Workspace WorkspaceConfiguration `mapstructure:"workspace"`
	Output    OutputConfiguration    `mapstructure:"output"`
}

// CollectConfiguration controls the tree walk.
type CollectConfiguration struct {
	Extensions   []string `mapstructure:"extensions"`
	MaxChars     *int     `mapstructure:"max_chars"`
	Matcher      string   `mapstructure:"matcher"`
	UseGitignore *bool    `mapstructure:"use_gitignore"`
	Exclude      []string `mapstructure:"exclude"`
}

// ModelConfiguration selects the chat-completions endpoint used for summaries and the README.
type ModelConfiguration struct {
	BaseURL         string `mapstructure:"base_url"`
	Name            string `mapstructure:"name"`
	TimeoutSeconds  *int   `mapstructure:"timeout_seconds"`
	MaxPromptTokens *int   `mapstructure:"max_prompt_tokens"`
}

// SummaryConfiguration controls per-file summarization.
type SummaryConfiguration struct {
	Enabled     *bool `mapstructure:"enabled"`
	Concurrency *int  `mapstructure:"concurrency"`
}

// WorkspaceConfiguration controls where archives and clones are materialized.
type WorkspaceConfiguration struct {
	Directory string `mapstructure:"directory"`
	Clean     *bool  `mapstructure:"clean"`
}

// OutputConfiguration controls rendering.
type OutputConfiguration struct {
	Format    string `mapstructure:"format"`
	Clipboard *bool  `mapstructure:"clipboard"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Collect.Exclude = utils.DeduplicatePatterns(merged.Collect.Exclude)
	merged.Collect.Extensions = utils.NormalizeExtensions(merged.Collect.Extensions)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Collect = result.Collect.merge(override.Collect)
	result.Model = result.Model.merge(override.Model)
	result.Summary = result.Summary.merge(override.Summary)
	result.Workspace = result.Workspace.merge(override.Workspace)
	result.Output = result.Output.merge(override.Output)
	return result
}

func (config CollectConfiguration) merge(override CollectConfiguration) CollectConfiguration {
	result := config
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string{}, override.Extensions...)
	}
	if override.MaxChars != nil {
		result.MaxChars = cloneInt(override.MaxChars)
	}
	if override.Matcher != "" {
		result.Matcher = override.Matcher
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	return result
}

func (config ModelConfiguration) merge(override ModelConfiguration) ModelConfiguration {
	result := config
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	if override.Name != "" {
		result.Name = override.Name
	}
	if override.TimeoutSeconds != nil {
		result.TimeoutSeconds = cloneInt(override.TimeoutSeconds)
	}
	if override.MaxPromptTokens != nil {
		result.MaxPromptTokens = cloneInt(override.MaxPromptTokens)
	}
	return result
}

func (config SummaryConfiguration) merge(override SummaryConfiguration) SummaryConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Concurrency != nil {
		result.Concurrency = cloneInt(override.Concurrency)
	}
	return result
}

func (config WorkspaceConfiguration) merge(override WorkspaceConfiguration) WorkspaceConfiguration {
	result := config
	if override.Directory != "" {
		result.Directory = override.Directory
	}
	if override.Clean != nil {
		result.Clean = cloneBool(override.Clean)
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

// ResolvedCollect returns the collect settings with defaults filled in.
func (config ApplicationConfiguration) ResolvedCollect() (extensions []string, maxChars int, matcher string, useGitignore bool) {
	extensions = config.Collect.Extensions
	if len(extensions) == 0 {
		extensions = append([]string{}, DefaultExtensions...)
	}
	maxChars = intOrDefault(config.Collect.MaxChars, DefaultMaxCharacters)
	matcher = config.Collect.Matcher
	useGitignore = boolOrDefault(config.Collect.UseGitignore, true)
	return extensions, maxChars, matcher, useGitignore
}

// ModelBaseURL returns the configured endpoint or the default one.
func (config ApplicationConfiguration) ModelBaseURL() string {
	if config.Model.BaseURL != "" {
		return config.Model.BaseURL
	}
	return DefaultModelBaseURL
}

// ModelName returns the configured model or the default one.
func (config ApplicationConfiguration) ModelName() string {
	if config.Model.Name != "" {
		return config.Model.Name
	}
	return DefaultModelName
}

// ModelTimeoutSeconds returns the configured request timeout in seconds.
func (config ApplicationConfiguration) ModelTimeoutSeconds() int {
	return intOrDefault(config.Model.TimeoutSeconds, DefaultTimeoutSeconds)
}

// MaxPromptTokens returns the README prompt budget.
func (config ApplicationConfiguration) MaxPromptTokens() int {
	return intOrDefault(config.Model.MaxPromptTokens, DefaultMaxPromptTokens)
}

// SummaryEnabled reports whether per-file summaries are requested by configuration.
func (config ApplicationConfiguration) SummaryEnabled() bool {
	return boolOrDefault(config.Summary.Enabled, false)
}

// SummaryConcurrency returns the number of concurrent summary requests.
func (config ApplicationConfiguration) SummaryConcurrency() int {
	return intOrDefault(config.Summary.Concurrency, DefaultConcurrency)
}

// WorkspaceDirectory returns the directory archives and clones are materialized into.
func (config ApplicationConfiguration) WorkspaceDirectory() string {
	if config.Workspace.Directory != "" {
		return config.Workspace.Directory
	}
	return DefaultWorkspace
}

// WorkspaceClean reports whether the workspace is removed before materializing.
func (config ApplicationConfiguration) WorkspaceClean() bool {
	return boolOrDefault(config.Workspace.Clean, true)
}

func intOrDefault(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
