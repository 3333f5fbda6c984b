package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/readmegen/internal/services/llm"
)

const (
	apiKeyEnvironmentVariable      = "GROQ_API_KEY"
	githubTokenEnvironmentVariable = "GITHUB_ACCESS_TOKEN"

	apiKeyPromptFormat = "Enter %s: "

	errorLoadEnvironmentFormat = "loading %s: %w"
	errorReadAPIKeyFormat      = "reading %s from terminal: %w"
)

// loadEnvironmentFile exports the variables of a dotenv file without
// overriding the ones already set. A missing file is not an error.
func loadEnvironmentFile(path string, logger *zap.Logger) error {
	if loadError := godotenv.Load(path); loadError != nil {
		if errors.Is(loadError, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(errorLoadEnvironmentFormat, path, loadError)
	}
	logger.Debug("loaded environment file", zap.String("path", path))
	return nil
}

// credentialSource resolves model and forge credentials from the environment,
// falling back to an interactive prompt for the model key.
type credentialSource struct {
	lookup       func(string) (string, bool)
	descriptor   int
	isTerminal   func(int) bool
	readPassword func(int) ([]byte, error)
	prompt       io.Writer
}

func newCredentialSource(prompt io.Writer) credentialSource {
	return credentialSource{
		lookup:       os.LookupEnv,
		descriptor:   int(os.Stdin.Fd()),
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
		prompt:       prompt,
	}
}

// nonInteractive returns a copy that never prompts.
func (source credentialSource) nonInteractive() credentialSource {
	source.isTerminal = func(int) bool { return false }
	return source
}

func (source credentialSource) environment(name string) string {
	if source.lookup == nil {
		return ""
	}
	value, _ := source.lookup(name)
	return strings.TrimSpace(value)
}

// apiKey returns GROQ_API_KEY, prompting for it when stdin is a terminal.
func (source credentialSource) apiKey() (string, error) {
	if key := source.environment(apiKeyEnvironmentVariable); key != "" {
		return key, nil
	}
	if source.isTerminal == nil || source.readPassword == nil || !source.isTerminal(source.descriptor) {
		return "", fmt.Errorf("%w: set %s", llm.ErrMissingAPIKey, apiKeyEnvironmentVariable)
	}
	if source.prompt != nil {
		fmt.Fprintf(source.prompt, apiKeyPromptFormat, apiKeyEnvironmentVariable)
	}
	entered, readError := source.readPassword(source.descriptor)
	if source.prompt != nil {
		fmt.Fprintln(source.prompt)
	}
	if readError != nil {
		return "", fmt.Errorf(errorReadAPIKeyFormat, apiKeyEnvironmentVariable, readError)
	}
	key := strings.TrimSpace(string(entered))
	if key == "" {
		return "", fmt.Errorf("%w: empty %s", llm.ErrMissingAPIKey, apiKeyEnvironmentVariable)
	}
	return key, nil
}

// githubToken returns GITHUB_ACCESS_TOKEN or an empty string.
func (source credentialSource) githubToken() string {
	return source.environment(githubTokenEnvironmentVariable)
}
