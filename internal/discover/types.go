// Package discover reads the dependency manifests found at a repository root
// so the README prompt can describe installation steps.
package discover

import (
	"sort"
	"strings"
)

// Ecosystem identifies the package manager or language family.
type Ecosystem string

const (
	// EcosystemGo represents Go modules.
	EcosystemGo Ecosystem = "go"
	// EcosystemJavaScript represents npm-based projects.
	EcosystemJavaScript Ecosystem = "js"
	// EcosystemPython represents Python packages.
	EcosystemPython Ecosystem = "python"
)

// Options configures manifest detection.
type Options struct {
	IncludeDev      bool
	IncludeIndirect bool
}

// Dependency is one declared third-party requirement.
type Dependency struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Dev     bool   `json:"dev,omitempty" yaml:"dev,omitempty"`
}

// Manifest summarizes one manifest file found at the repository root.
type Manifest struct {
	Ecosystem    Ecosystem         `json:"ecosystem" yaml:"ecosystem"`
	Path         string            `json:"path" yaml:"path"`
	Name         string            `json:"name,omitempty" yaml:"name,omitempty"`
	Version      string            `json:"version,omitempty" yaml:"version,omitempty"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Scripts      map[string]string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Dependencies []Dependency      `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// ScriptNames returns the manifest's script names in sorted order.
func (manifest Manifest) ScriptNames() []string {
	names := make([]string, 0, len(manifest.Scripts))
	for name := range manifest.Scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DependencyNames returns the names of the runtime dependencies followed by the dev ones.
func (manifest Manifest) DependencyNames() string {
	names := make([]string, 0, len(manifest.Dependencies))
	for _, dependency := range manifest.Dependencies {
		names = append(names, dependency.Name)
	}
	return strings.Join(names, ", ")
}

// sortDependencies orders runtime dependencies before dev ones, each group by name.
func sortDependencies(dependencies []Dependency) {
	sort.SliceStable(dependencies, func(left, right int) bool {
		if dependencies[left].Dev != dependencies[right].Dev {
			return !dependencies[left].Dev
		}
		return dependencies[left].Name < dependencies[right].Name
	})
}
