//go:build cgo

package docs

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/temirov/readmegen/internal/types"
)

const (
	pythonFunctionNodeType   = "function_definition"
	pythonClassNodeType      = "class_definition"
	pythonDecoratedNodeType  = "decorated_definition"
	pythonExpressionNodeType = "expression_statement"
	pythonStringNodeType     = "string"
)

// outlinePython reports the module docstring, top-level functions and
// classes, and the methods declared directly in each class body.
func outlinePython(root *sitter.Node, content []byte, moduleName string) []types.DocumentationEntry {
	var entries []types.DocumentationEntry
	if moduleDoc := pythonDocstring(root, content); moduleDoc != "" {
		entries = append(entries, types.DocumentationEntry{Kind: documentationKindModule, Name: moduleName, Doc: moduleDoc})
	}
	for _, child := range namedChildren(root) {
		definition := unwrapPythonDecorator(child)
		switch definition.Type() {
		case pythonFunctionNodeType:
			entries = append(entries, types.DocumentationEntry{
				Kind: documentationKindFunction,
				Name: fieldText(definition, nameField, content),
				Doc:  pythonDocstring(definition.ChildByFieldName(bodyField), content),
			})
		case pythonClassNodeType:
			className := fieldText(definition, nameField, content)
			body := definition.ChildByFieldName(bodyField)
			entries = append(entries, types.DocumentationEntry{
				Kind: documentationKindClass,
				Name: className,
				Doc:  pythonDocstring(body, content),
			})
			for _, member := range namedChildren(body) {
				method := unwrapPythonDecorator(member)
				if method.Type() != pythonFunctionNodeType {
					continue
				}
				entries = append(entries, types.DocumentationEntry{
					Kind: documentationKindMethod,
					Name: qualify(className, fieldText(method, nameField, content)),
					Doc:  pythonDocstring(method.ChildByFieldName(bodyField), content),
				})
			}
		}
	}
	return entries
}

func unwrapPythonDecorator(node *sitter.Node) *sitter.Node {
	if node.Type() != pythonDecoratedNodeType {
		return node
	}
	if definition := node.ChildByFieldName(definitionField); definition != nil {
		return definition
	}
	return node
}

// pythonDocstring returns the string literal that opens block, if any.
func pythonDocstring(block *sitter.Node, content []byte) string {
	children := namedChildren(block)
	for _, child := range children {
		if child.Type() == commentNodeType {
			continue
		}
		if child.Type() != pythonExpressionNodeType || child.NamedChildCount() == 0 {
			return ""
		}
		literal := child.NamedChild(0)
		if literal == nil || literal.Type() != pythonStringNodeType {
			return ""
		}
		return cleanPythonString(nodeText(literal, content))
	}
	return ""
}

func cleanPythonString(literal string) string {
	trimmed := strings.TrimLeft(literal, "rRuUbBfF")
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(trimmed, quote) && strings.HasSuffix(trimmed, quote) && len(trimmed) >= 2*len(quote) {
			trimmed = trimmed[len(quote) : len(trimmed)-len(quote)]
			break
		}
	}
	return trimCommentLines(trimmed)
}
