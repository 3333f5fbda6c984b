package discover

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	requirementsFileName    = "requirements.txt"
	devRequirementsFileName = "requirements-dev.txt"
	pyprojectFileName       = "pyproject.toml"
)

type pythonDetector struct{}

func (pythonDetector) Ecosystem() Ecosystem {
	return EcosystemPython
}

func (pythonDetector) Detect(rootPath string, options Options) ([]Manifest, error) {
	var manifests []Manifest

	requirements, reqErr := readRequirements(filepath.Join(rootPath, requirementsFileName))
	if reqErr != nil {
		return nil, reqErr
	}
	if requirements != nil {
		manifests = append(manifests, requirementsManifest(requirementsFileName, requirements, false))
	}
	if options.IncludeDev {
		devRequirements, devErr := readRequirements(filepath.Join(rootPath, devRequirementsFileName))
		if devErr != nil {
			return nil, devErr
		}
		if devRequirements != nil {
			manifests = append(manifests, requirementsManifest(devRequirementsFileName, devRequirements, true))
		}
	}

	pyprojectDeps, pyprojectDev, pyprojectFound, pyprojectErr := readPyProjectDependencies(filepath.Join(rootPath, pyprojectFileName))
	if pyprojectErr != nil {
		return nil, pyprojectErr
	}
	if pyprojectFound {
		manifest := requirementsManifest(pyprojectFileName, pyprojectDeps, false)
		if options.IncludeDev {
			manifest.Dependencies = append(manifest.Dependencies, requirementsManifest(pyprojectFileName, pyprojectDev, true).Dependencies...)
			sortDependencies(manifest.Dependencies)
		}
		manifests = append(manifests, manifest)
	}
	return manifests, nil
}

func requirementsManifest(path string, requirements []pythonRequirement, dev bool) Manifest {
	manifest := Manifest{Ecosystem: EcosystemPython, Path: path}
	seen := map[string]struct{}{}
	for _, requirement := range requirements {
		if _, exists := seen[requirement.Name]; exists {
			continue
		}
		seen[requirement.Name] = struct{}{}
		manifest.Dependencies = append(manifest.Dependencies, Dependency{Name: requirement.Name, Version: requirement.Version, Dev: dev})
	}
	sortDependencies(manifest.Dependencies)
	return manifest
}

type pythonRequirement struct {
	Name    string
	Version string
}

func readRequirements(path string) ([]pythonRequirement, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer file.Close()
	requirements := []pythonRequirement{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "-r") || strings.HasPrefix(trimmed, "--") {
			continue
		}
		requirement := parseRequirementLine(trimmed)
		if requirement.Name != "" {
			requirements = append(requirements, requirement)
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, fmt.Errorf("scan %s: %w", path, scanErr)
	}
	return requirements, nil
}

func parseRequirementLine(line string) pythonRequirement {
	clean := line
	if index := strings.Index(clean, "#"); index >= 0 {
		clean = clean[:index]
	}
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return pythonRequirement{}
	}
	name := clean
	version := ""
	separators := []string{"==", ">=", "<=", "~=", ">", "<"}
	for _, separator := range separators {
		if parts := strings.SplitN(clean, separator, 2); len(parts) == 2 {
			name = parts[0]
			version = separator + parts[1]
			break
		}
	}
	if index := strings.Index(name, "["); index >= 0 {
		name = name[:index]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return pythonRequirement{}
	}
	return pythonRequirement{
		Name:    strings.ToLower(name),
		Version: strings.TrimSpace(version),
	}
}

func readPyProjectDependencies(path string) ([]pythonRequirement, []pythonRequirement, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	defer file.Close()
	var deps []pythonRequirement
	var devDeps []pythonRequirement
	scanner := bufio.NewScanner(file)
	var currentArray string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[project.optional-dependencies]") {
			currentArray = ""
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentArray = ""
			continue
		}
		if strings.HasPrefix(line, "dependencies") && strings.Contains(line, "[") {
			currentArray = "dependencies"
			continue
		}
		if strings.HasPrefix(line, "dev") && strings.Contains(line, "[") {
			currentArray = "dev"
			continue
		}
		if currentArray == "" {
			continue
		}
		if line == "]" {
			currentArray = ""
			continue
		}
		trimmed := strings.Trim(line, "\",")
		requirement := parseRequirementLine(trimmed)
		if requirement.Name == "" {
			continue
		}
		if currentArray == "dependencies" {
			deps = append(deps, requirement)
			continue
		}
		if currentArray == "dev" {
			devDeps = append(devDeps, requirement)
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, nil, false, fmt.Errorf("scan %s: %w", path, scanErr)
	}
	return deps, devDeps, true, nil
}
