package discover

import (
	"errors"
	"sort"
)

type detector interface {
	Ecosystem() Ecosystem
	Detect(rootPath string, options Options) ([]Manifest, error)
}

func buildDetectors() []detector {
	return []detector{
		goDetector{},
		javaScriptDetector{},
		pythonDetector{},
	}
}

// Detect runs every ecosystem detector against rootPath. Manifests from
// detectors that succeeded are returned even when another detector fails;
// the failures are joined into the returned error.
func Detect(rootPath string, options Options) ([]Manifest, error) {
	var manifests []Manifest
	var detectionErrors []error
	for _, ecosystemDetector := range buildDetectors() {
		detected, detectError := ecosystemDetector.Detect(rootPath, options)
		if detectError != nil {
			detectionErrors = append(detectionErrors, detectError)
			continue
		}
		manifests = append(manifests, detected...)
	}
	sort.SliceStable(manifests, func(left, right int) bool {
		if manifests[left].Ecosystem != manifests[right].Ecosystem {
			return manifests[left].Ecosystem < manifests[right].Ecosystem
		}
		return manifests[left].Path < manifests[right].Path
	})
	return manifests, errors.Join(detectionErrors...)
}
