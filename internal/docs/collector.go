// Package docs outlines the classes, functions and methods declared in
// collected source files so the README prompt can describe the public surface.
package docs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/readmegen/internal/types"
)

type documentationExtractor interface {
	SupportedExtensions() []string
	CollectDocumentation(moduleName string, fileContent []byte) ([]types.DocumentationEntry, error)
}

// Collector routes outline requests to language-specific extractors.
type Collector struct {
	rootPath             string
	extensionToExtractor map[string]documentationExtractor
}

// NewCollector creates a Collector reading sources below rootPath.
func NewCollector(rootPath string) *Collector {
	extensionToExtractor := map[string]documentationExtractor{}
	registerExtractor(extensionToExtractor, newGoExtractor())
	for _, extractor := range syntaxTreeExtractors() {
		registerExtractor(extensionToExtractor, extractor)
	}
	return &Collector{rootPath: rootPath, extensionToExtractor: extensionToExtractor}
}

func registerExtractor(extensionToExtractor map[string]documentationExtractor, extractor documentationExtractor) {
	for _, extension := range extractor.SupportedExtensions() {
		normalizedExtension := strings.ToLower(extension)
		extensionToExtractor[normalizedExtension] = extractor
	}
}

// Supports reports whether an extractor is registered for the file name's extension.
func (collector *Collector) Supports(fileName string) bool {
	if collector == nil {
		return false
	}
	_, found := collector.extensionToExtractor[strings.ToLower(filepath.Ext(fileName))]
	return found
}

// Outline returns the declarations of a collected file. The complete source is
// read from disk so truncated records still outline fully; the record content
// is used when the file can no longer be read.
func (collector *Collector) Outline(record types.FileRecord) ([]types.DocumentationEntry, error) {
	if collector == nil {
		return nil, nil
	}
	extension := strings.ToLower(filepath.Ext(record.Name))
	extractor, found := collector.extensionToExtractor[extension]
	if !found {
		return nil, nil
	}
	// #nosec G304
	fileContent, readError := os.ReadFile(filepath.Join(collector.rootPath, filepath.FromSlash(record.Path)))
	if readError != nil {
		fileContent = []byte(record.Content)
	}
	moduleName := strings.TrimSuffix(record.Name, filepath.Ext(record.Name))
	return extractor.CollectDocumentation(moduleName, fileContent)
}

func qualify(components ...string) string {
	nonEmpty := make([]string, 0, len(components))
	for _, component := range components {
		if component != "" {
			nonEmpty = append(nonEmpty, component)
		}
	}
	return strings.Join(nonEmpty, qualifiedNameSeparator)
}
