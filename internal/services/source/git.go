package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
)

const (
	gitExecutable      = "git"
	gitSuffix          = ".git"
	httpsScheme        = "https"
	githubHost         = "github.com"
	tokenUserName      = "x-access-token"
	redactedCredential = "***"
	defaultCloneName   = "repository"

	errorCloneFormat = "%w: %s: %s"
)

// ErrCloneFailed is returned when git exits unsuccessfully.
var ErrCloneFailed = errors.New("git clone failed")

// IsGitURL reports whether input looks like a remote git repository location.
func IsGitURL(input string) bool {
	trimmed := strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(trimmed, "https://"), strings.HasPrefix(trimmed, "http://"):
		return true
	case strings.HasPrefix(trimmed, "git@"), strings.HasPrefix(trimmed, "ssh://"), strings.HasPrefix(trimmed, "git://"):
		return true
	case strings.HasPrefix(trimmed, "file://"):
		return true
	}
	return strings.HasSuffix(trimmed, gitSuffix)
}

// RepositoryName derives the clone directory name from a repository URL.
func RepositoryName(repositoryURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(repositoryURL), "/")
	if separatorIndex := strings.LastIndexAny(trimmed, "/:"); separatorIndex >= 0 {
		trimmed = trimmed[separatorIndex+1:]
	}
	trimmed = strings.TrimSuffix(trimmed, gitSuffix)
	if trimmed == "" || trimmed == "." || trimmed == ".." {
		return defaultCloneName
	}
	return path.Base(trimmed)
}

// Clone runs a shallow `git clone` of repositoryURL into
// <workspace>/<repository name> and returns that directory. A non-empty token
// is injected into https GitHub URLs so private repositories can be cloned.
func Clone(ctx context.Context, repositoryURL string, workspace string, clean bool, token string) (string, error) {
	absoluteWorkspace, prepareError := prepareWorkspace(workspace, clean)
	if prepareError != nil {
		return "", prepareError
	}
	targetDirectory := filepath.Join(absoluteWorkspace, RepositoryName(repositoryURL))

	cloneURL := authenticatedURL(repositoryURL, token)
	var standardError bytes.Buffer
	// #nosec G204
	command := exec.CommandContext(ctx, gitExecutable, "clone", "--depth", "1", "--quiet", cloneURL, targetDirectory)
	command.Stderr = &standardError
	if runError := command.Run(); runError != nil {
		details := strings.TrimSpace(standardError.String())
		if token != "" {
			details = strings.ReplaceAll(details, token, redactedCredential)
		}
		if details == "" {
			details = runError.Error()
		}
		return "", fmt.Errorf(errorCloneFormat, ErrCloneFailed, RedactURL(repositoryURL), details)
	}
	return targetDirectory, nil
}

func authenticatedURL(repositoryURL string, token string) string {
	if strings.TrimSpace(token) == "" {
		return repositoryURL
	}
	parsed, parseError := url.Parse(repositoryURL)
	if parseError != nil || parsed.Scheme != httpsScheme || !strings.EqualFold(parsed.Hostname(), githubHost) || parsed.User != nil {
		return repositoryURL
	}
	parsed.User = url.UserPassword(tokenUserName, strings.TrimSpace(token))
	return parsed.String()
}

// RedactURL hides any credentials embedded in a URL so it can be logged.
func RedactURL(repositoryURL string) string {
	parsed, parseError := url.Parse(repositoryURL)
	if parseError != nil || parsed.User == nil {
		return repositoryURL
	}
	return parsed.Redacted()
}
