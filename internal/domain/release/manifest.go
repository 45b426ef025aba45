package release

import (
	"strings"

	"github.com/hashicorp/go-version"
)

// Manifest describes the latest published release of the target program.
type Manifest struct {
	// Version is the semantic version of the release.
	Version *version.Version
	// DownloadURL is the location of the ZIP package with the release files.
	DownloadURL string
	// Checksum is the optional SHA-512 of the package, nil when the server does not publish one.
	Checksum []byte
}

// ParseVersion parses a semantic version, classifying failures as KindVersionParse.
// Versions with any number of segments are accepted, so "1.2", "1.2.0" and "1.2.0.0" are equal.
func ParseVersion(raw string) (*version.Version, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, Errorf(KindVersionParse, "version is empty")
	}

	parsed, err := version.NewVersion(raw)
	if err != nil {
		return nil, Errorf(KindVersionParse, "parse version %q: %w", raw, err)
	}

	return parsed, nil
}

// NeedsUpdate reports whether remote is strictly newer than local.
// An absent local version is older than any remote one.
func NeedsUpdate(local, remote *version.Version) bool {
	if remote == nil {
		return false
	}

	if local == nil {
		return true
	}

	return remote.GreaterThan(local)
}

// DescribeVersion renders an optional version for status output.
func DescribeVersion(v *version.Version) string {
	if v == nil {
		return "not installed"
	}

	return v.Original()
}
