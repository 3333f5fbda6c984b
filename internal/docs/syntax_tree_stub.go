//go:build !cgo

package docs

// syntaxTreeExtractors returns no extractors when cgo is unavailable because
// the tree-sitter grammars cannot be built; only Go files are outlined then.
func syntaxTreeExtractors() []documentationExtractor {
	return nil
}
