// Package types defines every cross‑package data structure used by the readmegen CLI.
package types

const (
	EntryKindDirectory = "directory"
	EntryKindFile      = "file"

	CommandTree     = "tree"
	CommandCollect  = "collect"
	CommandGenerate = "generate"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatYAML = "yaml"

	MatcherSubstring = "substring"
	MatcherGlob      = "glob"
)

// DocumentationEntry is a single symbol found in a collected source file.
type DocumentationEntry struct {
	Kind string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
	Doc  string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// FileRecord is one collected file: its bare name, its root-relative path and
// either its content or a model-produced summary of it.
type FileRecord struct {
	Name      string               `json:"name" yaml:"name"`
	Path      string               `json:"path" yaml:"path"`
	Content   string               `json:"content" yaml:"content"`
	Truncated bool                 `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	SizeBytes int64                `json:"sizeBytes,omitempty" yaml:"sizeBytes,omitempty"`
	Tokens    int                  `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Summary   string               `json:"summary,omitempty" yaml:"summary,omitempty"`
	Outline   []DocumentationEntry `json:"outline,omitempty" yaml:"outline,omitempty"`
}

// Text returns the summary when one was produced and the content otherwise.
func (record FileRecord) Text() string {
	if record.Summary != "" {
		return record.Summary
	}
	return record.Content
}

// CollectedOutput is the rendered tree listing plus the ordered file records.
type CollectedOutput struct {
	Root     string       `json:"root" yaml:"root"`
	TreeText string       `json:"tree" yaml:"tree"`
	Records  []FileRecord `json:"files" yaml:"files"`
}

// OutputSummary captures aggregate information about collected files.
type OutputSummary struct {
	TotalFiles  int    `json:"totalFiles" yaml:"totalFiles"`
	TotalSize   string `json:"totalSize" yaml:"totalSize"`
	TotalTokens int    `json:"totalTokens,omitempty" yaml:"totalTokens,omitempty"`
	Truncated   int    `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
}

