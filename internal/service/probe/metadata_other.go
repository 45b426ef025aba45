//go:build !windows

package probe

import (
	"debug/buildinfo"
	"fmt"
	"regexp"
)

// develVersion is what the Go toolchain records for builds outside a module version.
const develVersion = "(devel)"

// ldflagsVersionPattern matches "-X <pkg>.Version=<value>" inside recorded -ldflags.
var ldflagsVersionPattern = regexp.MustCompile(`(?:^|\s)-X[= ]?['"]?(?:\S+\.)?Version=([^\s'"]+)`)

// readEmbeddedVersion returns the module version recorded in the Go build info of the binary,
// falling back to a version injected with -ldflags "-X ...Version=...".
func readEmbeddedVersion(path string) (string, error) {
	info, err := buildinfo.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read build info: %w", err)
	}

	if v := info.Main.Version; v != "" && v != develVersion {
		return v, nil
	}

	for _, setting := range info.Settings {
		if setting.Key != "-ldflags" {
			continue
		}

		if v := versionFromLdflags(setting.Value); v != "" {
			return v, nil
		}
	}

	return "", nil
}

// versionFromLdflags extracts the value of the first "-X ...Version=" assignment.
func versionFromLdflags(ldflags string) string {
	matches := ldflagsVersionPattern.FindStringSubmatch(ldflags)
	if matches == nil {
		return ""
	}

	return matches[1]
}
