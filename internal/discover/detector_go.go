package discover

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

const goModFileName = "go.mod"

type goDetector struct{}

func (goDetector) Ecosystem() Ecosystem {
	return EcosystemGo
}

func (goDetector) Detect(rootPath string, options Options) ([]Manifest, error) {
	bytes, readErr := os.ReadFile(filepath.Join(rootPath, goModFileName))
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return nil, nil
		}
		return nil, fmt.Errorf("read go.mod: %w", readErr)
	}
	modFile, parseErr := modfile.Parse(goModFileName, bytes, nil)
	if parseErr != nil {
		return nil, fmt.Errorf("parse go.mod: %w", parseErr)
	}
	manifest := Manifest{Ecosystem: EcosystemGo, Path: goModFileName}
	if modFile.Module != nil {
		manifest.Name = modFile.Module.Mod.Path
	}
	if modFile.Go != nil {
		manifest.Version = modFile.Go.Version
	}
	for _, requirement := range modFile.Require {
		if requirement == nil || requirement.Mod.Path == "" || requirement.Mod.Path == manifest.Name {
			continue
		}
		if !options.IncludeIndirect && requirement.Indirect {
			continue
		}
		manifest.Dependencies = append(manifest.Dependencies, Dependency{
			Name:    requirement.Mod.Path,
			Version: requirement.Mod.Version,
		})
	}
	sortDependencies(manifest.Dependencies)
	return []Manifest{manifest}, nil
}
