package docs

import (
	"go/ast"
	"go/doc"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"github.com/temirov/readmegen/internal/types"
)

type goExtractor struct{}

func newGoExtractor() documentationExtractor {
	return goExtractor{}
}

func (goExtractor) SupportedExtensions() []string {
	return []string{goFileExtension}
}

// CollectDocumentation reports the package comment and the exported
// functions, types and methods of a single Go file.
func (goExtractor) CollectDocumentation(moduleName string, fileContent []byte) ([]types.DocumentationEntry, error) {
	if len(fileContent) == 0 {
		return nil, nil
	}
	fileSet := token.NewFileSet()
	fileAST, parseError := parser.ParseFile(fileSet, moduleName+goFileExtension, fileContent, parser.ParseComments)
	if parseError != nil {
		return nil, parseError
	}
	packageDoc, docError := doc.NewFromFiles(fileSet, []*ast.File{fileAST}, fileAST.Name.Name)
	if docError != nil {
		return nil, docError
	}

	var entries []types.DocumentationEntry
	if packageText := strings.TrimSpace(packageDoc.Doc); packageText != "" {
		entries = append(entries, types.DocumentationEntry{Kind: documentationKindPackage, Name: packageDoc.Name, Doc: packageText})
	}
	for _, functionDoc := range packageDoc.Funcs {
		entries = append(entries, types.DocumentationEntry{Kind: documentationKindFunction, Name: functionDoc.Name, Doc: strings.TrimSpace(functionDoc.Doc)})
	}
	for _, typeDoc := range packageDoc.Types {
		entries = append(entries, types.DocumentationEntry{Kind: documentationKindType, Name: typeDoc.Name, Doc: strings.TrimSpace(typeDoc.Doc)})
		for _, functionDoc := range typeDoc.Funcs {
			entries = append(entries, types.DocumentationEntry{Kind: documentationKindFunction, Name: functionDoc.Name, Doc: strings.TrimSpace(functionDoc.Doc)})
		}
		for _, methodDoc := range typeDoc.Methods {
			entries = append(entries, types.DocumentationEntry{Kind: documentationKindMethod, Name: qualify(typeDoc.Name, methodDoc.Name), Doc: strings.TrimSpace(methodDoc.Doc)})
		}
	}
	positions := declarationPositions(fileSet, fileAST)
	sort.SliceStable(entries, func(left, right int) bool {
		return positions[entries[left].Name] < positions[entries[right].Name]
	})
	return entries, nil
}

// declarationPositions maps declaration names to source offsets so entries
// keep file order instead of go/doc's alphabetical order.
func declarationPositions(fileSet *token.FileSet, fileAST *ast.File) map[string]int {
	positions := map[string]int{fileAST.Name.Name: -1}
	for _, declaration := range fileAST.Decls {
		switch typed := declaration.(type) {
		case *ast.FuncDecl:
			name := typed.Name.Name
			if typed.Recv != nil && len(typed.Recv.List) > 0 {
				name = qualify(receiverTypeName(typed.Recv.List[0].Type), name)
			}
			positions[name] = fileSet.Position(typed.Pos()).Offset
		case *ast.GenDecl:
			for _, spec := range typed.Specs {
				if typeSpec, isType := spec.(*ast.TypeSpec); isType {
					positions[typeSpec.Name.Name] = fileSet.Position(typeSpec.Pos()).Offset
				}
			}
		}
	}
	return positions
}

func receiverTypeName(expression ast.Expr) string {
	switch typed := expression.(type) {
	case *ast.StarExpr:
		return receiverTypeName(typed.X)
	case *ast.IndexExpr:
		return receiverTypeName(typed.X)
	case *ast.IndexListExpr:
		return receiverTypeName(typed.X)
	case *ast.Ident:
		return typed.Name
	default:
		return ""
	}
}
