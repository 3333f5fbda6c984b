package discover

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeManifest(t *testing.T, rootPath string, name string, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(rootPath, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDetectReadsEveryEcosystem(t *testing.T) {
	rootPath := t.TempDir()
	writeManifest(t, rootPath, "go.mod", `module example.com/tool

go 1.22

require (
	github.com/spf13/cobra v1.10.1
	golang.org/x/sys v0.30.0 // indirect
)
`)
	writeManifest(t, rootPath, "package.json", `{
  "name": "web",
  "version": "1.2.0",
  "description": "Frontend",
  "scripts": {"test": "vitest", "build": "vite build"},
  "dependencies": {"react": "^18.0.0"},
  "devDependencies": {"vitest": "^1.0.0"}
}`)
	writeManifest(t, rootPath, "requirements.txt", "# runtime\nrequests==2.31.0\nFlask[async]>=3.0\n-r other.txt\nrequests\n")
	writeManifest(t, rootPath, "requirements-dev.txt", "pytest\n")

	manifests, err := Detect(rootPath, Options{})
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if len(manifests) != 3 {
		t.Fatalf("expected 3 manifests, got %d: %+v", len(manifests), manifests)
	}

	goManifest := manifests[0]
	if goManifest.Ecosystem != EcosystemGo || goManifest.Name != "example.com/tool" || goManifest.Version != "1.22" {
		t.Fatalf("unexpected go manifest %+v", goManifest)
	}
	if !reflect.DeepEqual(goManifest.Dependencies, []Dependency{{Name: "github.com/spf13/cobra", Version: "v1.10.1"}}) {
		t.Fatalf("indirect requirements must be skipped: %+v", goManifest.Dependencies)
	}

	jsManifest := manifests[1]
	if jsManifest.Ecosystem != EcosystemJavaScript || jsManifest.Name != "web" || jsManifest.Description != "Frontend" {
		t.Fatalf("unexpected js manifest %+v", jsManifest)
	}
	if !reflect.DeepEqual(jsManifest.ScriptNames(), []string{"build", "test"}) {
		t.Fatalf("unexpected scripts %v", jsManifest.ScriptNames())
	}
	if len(jsManifest.Dependencies) != 1 || jsManifest.Dependencies[0].Name != "react" {
		t.Fatalf("dev dependencies must be excluded by default: %+v", jsManifest.Dependencies)
	}

	pythonManifest := manifests[2]
	expectedPython := []Dependency{{Name: "flask", Version: ">=3.0"}, {Name: "requests", Version: "==2.31.0"}}
	if pythonManifest.Path != "requirements.txt" || !reflect.DeepEqual(pythonManifest.Dependencies, expectedPython) {
		t.Fatalf("unexpected python manifest %+v", pythonManifest)
	}
}

func TestDetectIncludesDevManifests(t *testing.T) {
	rootPath := t.TempDir()
	writeManifest(t, rootPath, "package.json", `{"name":"web","devDependencies":{"vitest":"^1.0.0"}}`)
	writeManifest(t, rootPath, "requirements-dev.txt", "pytest==8.0\n")

	manifests, err := Detect(rootPath, Options{IncludeDev: true})
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("expected 2 manifests, got %+v", manifests)
	}
	if got := manifests[0].Dependencies; len(got) != 1 || !got[0].Dev || got[0].Name != "vitest" {
		t.Fatalf("expected vitest dev dependency, got %+v", got)
	}
	if manifests[1].Path != "requirements-dev.txt" || !manifests[1].Dependencies[0].Dev {
		t.Fatalf("expected dev requirements manifest, got %+v", manifests[1])
	}
}

func TestDetectReturnsPartialResultsOnMalformedManifest(t *testing.T) {
	rootPath := t.TempDir()
	writeManifest(t, rootPath, "package.json", `{not json`)
	writeManifest(t, rootPath, "requirements.txt", "numpy\n")

	manifests, err := Detect(rootPath, Options{})
	if err == nil {
		t.Fatalf("expected parse error for package.json")
	}
	if len(manifests) != 1 || manifests[0].Ecosystem != EcosystemPython {
		t.Fatalf("expected python manifest to survive, got %+v", manifests)
	}
}

func TestDetectEmptyRoot(t *testing.T) {
	manifests, err := Detect(t.TempDir(), Options{IncludeDev: true})
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected no manifests, got %+v", manifests)
	}
}

func TestParseRequirementLine(t *testing.T) {
	testCases := map[string]pythonRequirement{
		"Django==5.0":          {Name: "django", Version: "==5.0"},
		"uvicorn[standard]":    {Name: "uvicorn"},
		"numpy>=1.26 # pinned": {Name: "numpy", Version: ">=1.26"},
		"# comment only":       {},
	}
	for line, expected := range testCases {
		if parsed := parseRequirementLine(line); parsed != expected {
			t.Fatalf("parseRequirementLine(%q) = %+v, want %+v", line, parsed, expected)
		}
	}
}
