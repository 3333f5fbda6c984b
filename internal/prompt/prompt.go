// Package prompt renders the language-model prompts used to summarize files
// and to write the README.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/temirov/readmegen/internal/discover"
	"github.com/temirov/readmegen/internal/tokenizer"
	"github.com/temirov/readmegen/internal/types"
)

const (
	// ReadmeSystemPrompt frames the README request.
	ReadmeSystemPrompt = "You are a senior developer who writes clear, accurate README files for GitHub projects."
	// SummarySystemPrompt frames per-file summary requests.
	SummarySystemPrompt = "You are a senior developer who summarizes source files concisely and accurately."

	readmeTemplateName  = "readme.tmpl"
	summaryTemplateName = "summary.tmpl"

	errorRenderFormat = "rendering %s: %w"
	errorCountFormat  = "counting prompt tokens: %w"
	errorBudgetFormat = "%w: %d tokens without any file content, budget %d"
)

// ErrBudgetExceeded is returned when the prompt does not fit even after every file was dropped.
var ErrBudgetExceeded = errors.New("prompt exceeds the token budget")

//go:embed templates/*.tmpl
var templateFiles embed.FS

var templates = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join":      strings.Join,
	"firstLine": firstLine,
}).ParseFS(templateFiles, "templates/*.tmpl"))

// Input is everything the README prompt is rendered from.
type Input struct {
	ProjectName string
	TreeText    string
	Records     []types.FileRecord
	Manifests   []discover.Manifest
	Omitted     int
}

// BuildReadmePrompt renders the README request.
func BuildReadmePrompt(input Input) (string, error) {
	manifests := append([]discover.Manifest(nil), input.Manifests...)
	sort.SliceStable(manifests, func(left, right int) bool {
		return manifests[left].Path < manifests[right].Path
	})
	input.Manifests = manifests
	return render(readmeTemplateName, input)
}

// BuildSummaryPrompt renders the request for a single file summary.
func BuildSummaryPrompt(record types.FileRecord) (string, error) {
	return render(summaryTemplateName, record)
}

// FitToBudget drops trailing records until the rendered README prompt is at
// most maxTokens tokens long and returns the rendered prompt together with the
// number of dropped records. A nil counter or a non-positive budget disables fitting.
func FitToBudget(input Input, counter tokenizer.Counter, maxTokens int) (string, int, error) {
	if counter == nil || maxTokens <= 0 {
		rendered, renderError := BuildReadmePrompt(input)
		return rendered, 0, renderError
	}

	totalRecords := len(input.Records)
	fits := func(kept int) (string, bool, error) {
		candidate := input
		candidate.Records = input.Records[:kept]
		candidate.Omitted = input.Omitted + totalRecords - kept
		rendered, renderError := BuildReadmePrompt(candidate)
		if renderError != nil {
			return "", false, renderError
		}
		tokens, countError := tokenizer.CountText(counter, rendered)
		if countError != nil {
			return "", false, fmt.Errorf(errorCountFormat, countError)
		}
		return rendered, tokens <= maxTokens, nil
	}

	rendered, fitsWhole, checkError := fits(totalRecords)
	if checkError != nil {
		return "", 0, checkError
	}
	if fitsWhole {
		return rendered, 0, nil
	}

	// Token counts grow with the number of kept records, so the largest
	// fitting prefix can be found by bisection.
	low, high := 0, totalRecords-1
	best := -1
	bestRendered := ""
	for low <= high {
		middle := (low + high) / 2
		candidateRendered, candidateFits, candidateError := fits(middle)
		if candidateError != nil {
			return "", 0, candidateError
		}
		if candidateFits {
			best = middle
			bestRendered = candidateRendered
			low = middle + 1
		} else {
			high = middle - 1
		}
	}
	if best < 0 {
		emptyInput := input
		emptyInput.Records = nil
		emptyInput.Omitted = input.Omitted + totalRecords
		emptyRendered, _ := BuildReadmePrompt(emptyInput)
		tokens, _ := tokenizer.CountText(counter, emptyRendered)
		return "", totalRecords, fmt.Errorf(errorBudgetFormat, ErrBudgetExceeded, tokens, maxTokens)
	}
	return bestRendered, totalRecords - best, nil
}

func render(templateName string, data any) (string, error) {
	var buffer bytes.Buffer
	if executeError := templates.ExecuteTemplate(&buffer, templateName, data); executeError != nil {
		return "", fmt.Errorf(errorRenderFormat, templateName, executeError)
	}
	return strings.TrimSpace(buffer.String()) + "\n", nil
}

func firstLine(text string) string {
	trimmed := strings.TrimSpace(text)
	if newlineIndex := strings.IndexByte(trimmed, '\n'); newlineIndex >= 0 {
		return strings.TrimSpace(trimmed[:newlineIndex])
	}
	return trimmed
}
