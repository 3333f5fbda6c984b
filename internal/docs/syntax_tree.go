//go:build cgo

package docs

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/temirov/readmegen/internal/types"
)

const (
	nameField        = "name"
	bodyField        = "body"
	definitionField  = "definition"
	declarationField = "declaration"
	valueField       = "value"
	commentNodeType  = "comment"
)

type outlineWalker func(root *sitter.Node, content []byte, moduleName string) []types.DocumentationEntry

// syntaxTreeExtractor parses a file with a tree-sitter grammar and hands the
// syntax tree to a language-specific walker. A parser is created per call
// because tree-sitter parsers are not safe for concurrent use.
type syntaxTreeExtractor struct {
	extensions []string
	language   func() *sitter.Language
	walk       outlineWalker
}

func syntaxTreeExtractors() []documentationExtractor {
	return []documentationExtractor{
		syntaxTreeExtractor{extensions: []string{pythonFileExtension}, language: python.GetLanguage, walk: outlinePython},
		syntaxTreeExtractor{extensions: []string{javaScriptFileExtension, jsxFileExtension}, language: javascript.GetLanguage, walk: outlineJavaScript},
		syntaxTreeExtractor{extensions: []string{typeScriptFileExtension}, language: typescript.GetLanguage, walk: outlineJavaScript},
		syntaxTreeExtractor{extensions: []string{tsxFileExtension}, language: tsx.GetLanguage, walk: outlineJavaScript},
	}
}

func (extractor syntaxTreeExtractor) SupportedExtensions() []string {
	return extractor.extensions
}

func (extractor syntaxTreeExtractor) CollectDocumentation(moduleName string, fileContent []byte) ([]types.DocumentationEntry, error) {
	if len(fileContent) == 0 {
		return nil, nil
	}
	parser := sitter.NewParser()
	parser.SetLanguage(extractor.language())
	tree := parser.Parse(nil, fileContent)
	if tree == nil {
		return nil, nil
	}
	return extractor.walk(tree.RootNode(), fileContent, moduleName), nil
}

func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(string(content[node.StartByte():node.EndByte()]))
}

func fieldText(node *sitter.Node, field string, content []byte) string {
	if node == nil {
		return ""
	}
	return nodeText(node.ChildByFieldName(field), content)
}

func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for index := 0; index < int(node.NamedChildCount()); index++ {
		if child := node.NamedChild(index); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// trimCommentLines strips comment delimiters and leading '*' gutters and
// joins the remaining lines.
func trimCommentLines(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		trimmed = strings.TrimPrefix(trimmed, "*")
		cleaned = append(cleaned, strings.TrimSpace(trimmed))
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
