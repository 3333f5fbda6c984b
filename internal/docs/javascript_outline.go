//go:build cgo

package docs

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/temirov/readmegen/internal/types"
)

const (
	jsDocPrefix = "/**"
	jsDocSuffix = "*/"

	javaScriptExportNodeType = "export_statement"
	javaScriptMethodNodeType = "method_definition"
	javaScriptDeclaratorType = "variable_declarator"
)

var (
	javaScriptFunctionDeclarations = map[string]struct{}{
		"function_declaration":           {},
		"generator_function_declaration": {},
	}
	javaScriptClassDeclarations = map[string]struct{}{
		"class_declaration":          {},
		"abstract_class_declaration": {},
	}
	javaScriptVariableDeclarations = map[string]struct{}{
		"lexical_declaration":  {},
		"variable_declaration": {},
	}
	javaScriptFunctionValues = map[string]struct{}{
		"arrow_function":      {},
		"function":            {},
		"function_expression": {},
		"generator_function":  {},
	}
	typeScriptDeclarationKinds = map[string]string{
		"interface_declaration":  documentationKindInterface,
		"type_alias_declaration": documentationKindType,
		"enum_declaration":       documentationKindEnum,
	}
)

// outlineJavaScript reports top-level functions, classes with their methods,
// function-valued variables and, for TypeScript, interfaces, type aliases and
// enums. A JSDoc block directly above a declaration becomes its documentation.
func outlineJavaScript(root *sitter.Node, content []byte, _ string) []types.DocumentationEntry {
	var entries []types.DocumentationEntry
	pendingDoc := ""
	for _, child := range namedChildren(root) {
		if child.Type() == commentNodeType {
			pendingDoc = jsDocText(nodeText(child, content))
			continue
		}
		documentation := pendingDoc
		pendingDoc = ""

		declaration := child
		if declaration.Type() == javaScriptExportNodeType {
			declaration = child.ChildByFieldName(declarationField)
			if declaration == nil {
				continue
			}
		}
		entries = append(entries, javaScriptDeclarationEntries(declaration, content, documentation)...)
	}
	return entries
}

func javaScriptDeclarationEntries(declaration *sitter.Node, content []byte, documentation string) []types.DocumentationEntry {
	declarationType := declaration.Type()
	if _, isFunction := javaScriptFunctionDeclarations[declarationType]; isFunction {
		return []types.DocumentationEntry{{Kind: documentationKindFunction, Name: fieldText(declaration, nameField, content), Doc: documentation}}
	}
	if _, isClass := javaScriptClassDeclarations[declarationType]; isClass {
		className := fieldText(declaration, nameField, content)
		entries := []types.DocumentationEntry{{Kind: documentationKindClass, Name: className, Doc: documentation}}
		return append(entries, javaScriptMethods(declaration.ChildByFieldName(bodyField), content, className)...)
	}
	if kind, isTypeDeclaration := typeScriptDeclarationKinds[declarationType]; isTypeDeclaration {
		return []types.DocumentationEntry{{Kind: kind, Name: fieldText(declaration, nameField, content), Doc: documentation}}
	}
	if _, isVariable := javaScriptVariableDeclarations[declarationType]; isVariable {
		var entries []types.DocumentationEntry
		for _, declarator := range namedChildren(declaration) {
			if declarator.Type() != javaScriptDeclaratorType {
				continue
			}
			value := declarator.ChildByFieldName(valueField)
			if value == nil {
				continue
			}
			if _, isFunctionValue := javaScriptFunctionValues[value.Type()]; !isFunctionValue {
				continue
			}
			entries = append(entries, types.DocumentationEntry{Kind: documentationKindFunction, Name: fieldText(declarator, nameField, content), Doc: documentation})
		}
		return entries
	}
	return nil
}

func javaScriptMethods(classBody *sitter.Node, content []byte, className string) []types.DocumentationEntry {
	var entries []types.DocumentationEntry
	pendingDoc := ""
	for _, member := range namedChildren(classBody) {
		if member.Type() == commentNodeType {
			pendingDoc = jsDocText(nodeText(member, content))
			continue
		}
		documentation := pendingDoc
		pendingDoc = ""
		if member.Type() != javaScriptMethodNodeType {
			continue
		}
		entries = append(entries, types.DocumentationEntry{
			Kind: documentationKindMethod,
			Name: qualify(className, fieldText(member, nameField, content)),
			Doc:  documentation,
		})
	}
	return entries
}

// jsDocText returns the body of a /** ... */ block and an empty string for other comments.
func jsDocText(comment string) string {
	if !strings.HasPrefix(comment, jsDocPrefix) || !strings.HasSuffix(comment, jsDocSuffix) {
		return ""
	}
	return trimCommentLines(strings.TrimSuffix(strings.TrimPrefix(comment, jsDocPrefix), jsDocSuffix))
}
