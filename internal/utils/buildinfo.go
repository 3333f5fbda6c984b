package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// GetApplicationVersion reports the module version recorded at build time and
// falls back to `git describe` when the binary was built from a checkout.
func GetApplicationVersion() string {
	if buildInfo, available := debug.ReadBuildInfo(); available {
		if version := buildInfo.Main.Version; version != "" && version != developmentVersion {
			return version
		}
	}

	for _, describeArguments := range [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	} {
		// #nosec G204
		describeOutput, describeError := exec.Command("git", describeArguments...).Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}

	return unknownVersion
}
