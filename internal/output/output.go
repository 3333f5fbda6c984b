// Package output renders collected repositories as raw text, JSON or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/readmegen/internal/types"
	"github.com/temirov/readmegen/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	separatorLine   = "----------------------------------------"
	fileHeaderLabel = "File: "
	summaryLabel    = "Summary: "
	truncatedSuffix = " (truncated)"
	summarySuffix   = " (summary)"

	errorUnsupportedFormat = "%w: %q (expected %s, %s or %s)"
)

// ErrUnsupportedFormat is returned for unknown output formats.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// document is the structured rendering of a collection.
type document struct {
	Root    string               `json:"root" yaml:"root"`
	Tree    string               `json:"tree" yaml:"tree"`
	Files   []types.FileRecord   `json:"files,omitempty" yaml:"files,omitempty"`
	Summary *types.OutputSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Summarize aggregates counts, sizes and token totals over records.
func Summarize(records []types.FileRecord, model string) types.OutputSummary {
	var totalBytes int64
	summary := types.OutputSummary{TotalFiles: len(records), Model: model}
	for _, record := range records {
		totalBytes += record.SizeBytes
		summary.TotalTokens += record.Tokens
		if record.Truncated {
			summary.Truncated++
		}
	}
	summary.TotalSize = utils.FormatFileSize(totalBytes)
	return summary
}

// ValidateFormat reports ErrUnsupportedFormat for anything but raw, json or yaml.
func ValidateFormat(format string) error {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatYAML:
		return nil
	default:
		return fmt.Errorf(errorUnsupportedFormat, ErrUnsupportedFormat, format, types.FormatRaw, types.FormatJSON, types.FormatYAML)
	}
}

// RenderTree renders only the directory listing.
func RenderTree(format string, collected types.CollectedOutput) (string, error) {
	return render(format, document{Root: collected.Root, Tree: collected.TreeText}, func() string {
		return collected.TreeText + "\n"
	})
}

// RenderCollection renders the listing followed by every file record. A nil
// summary omits the totals.
func RenderCollection(format string, collected types.CollectedOutput, summary *types.OutputSummary) (string, error) {
	structured := document{Root: collected.Root, Tree: collected.TreeText, Files: collected.Records, Summary: summary}
	return render(format, structured, func() string {
		return renderRaw(collected, summary)
	})
}

func render(format string, structured document, raw func() string) (string, error) {
	switch format {
	case types.FormatRaw, "":
		return raw(), nil
	case types.FormatJSON:
		encoded, jsonEncodeError := json.MarshalIndent(structured, indentPrefix, indentSpacer)
		if jsonEncodeError != nil {
			return "", jsonEncodeError
		}
		return string(encoded) + "\n", nil
	case types.FormatYAML:
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(yamlIndent)
		if yamlEncodeError := encoder.Encode(structured); yamlEncodeError != nil {
			return "", yamlEncodeError
		}
		if closeError := encoder.Close(); closeError != nil {
			return "", closeError
		}
		return buffer.String(), nil
	default:
		return "", ValidateFormat(format)
	}
}

func renderRaw(collected types.CollectedOutput, summary *types.OutputSummary) string {
	var builder strings.Builder
	if collected.TreeText != "" {
		builder.WriteString(collected.TreeText)
		builder.WriteString("\n\n")
	}
	for _, record := range collected.Records {
		builder.WriteString(fileHeaderLabel + record.Path)
		switch {
		case record.Summary != "":
			builder.WriteString(summarySuffix)
		case record.Truncated:
			builder.WriteString(truncatedSuffix)
		}
		builder.WriteString("\n" + separatorLine + "\n")
		builder.WriteString(record.Text())
		builder.WriteString("\n" + separatorLine + "\n\n")
	}
	if summary != nil {
		builder.WriteString(FormatSummary(*summary))
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatSummary renders totals as a single line.
func FormatSummary(summary types.OutputSummary) string {
	parts := []string{fmt.Sprintf("%d files", summary.TotalFiles), summary.TotalSize}
	if summary.TotalTokens > 0 {
		tokensPart := fmt.Sprintf("%d tokens", summary.TotalTokens)
		if summary.Model != "" {
			tokensPart += " (" + summary.Model + ")"
		}
		parts = append(parts, tokensPart)
	}
	if summary.Truncated > 0 {
		parts = append(parts, fmt.Sprintf("%d truncated", summary.Truncated))
	}
	return summaryLabel + strings.Join(parts, ", ")
}
