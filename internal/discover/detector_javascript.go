package discover

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const packageJSONFileName = "package.json"

type javaScriptDetector struct{}

func (javaScriptDetector) Ecosystem() Ecosystem {
	return EcosystemJavaScript
}

func (javaScriptDetector) Detect(rootPath string, options Options) ([]Manifest, error) {
	data, readErr := os.ReadFile(filepath.Join(rootPath, packageJSONFileName))
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("read package.json: %w", readErr)
	}
	var parsed npmManifest
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	manifest := Manifest{
		Ecosystem:   EcosystemJavaScript,
		Path:        packageJSONFileName,
		Name:        parsed.Name,
		Version:     parsed.Version,
		Description: parsed.Description,
		Scripts:     parsed.Scripts,
	}
	for name, version := range parsed.Dependencies {
		manifest.Dependencies = append(manifest.Dependencies, Dependency{Name: name, Version: version})
	}
	if options.IncludeDev {
		for name, version := range parsed.DevDependencies {
			if _, duplicate := parsed.Dependencies[name]; duplicate {
				continue
			}
			manifest.Dependencies = append(manifest.Dependencies, Dependency{Name: name, Version: version, Dev: true})
		}
	}
	sortDependencies(manifest.Dependencies)
	return []Manifest{manifest}, nil
}

type npmManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}
