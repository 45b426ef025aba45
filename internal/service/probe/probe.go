package probe

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/oshokin/launch-stub/internal/domain/release"
	"github.com/oshokin/launch-stub/internal/logger"
)

// MetadataReader returns the raw version string embedded in the executable at path.
// An empty string means the executable carries no version field.
type MetadataReader func(path string) (string, error)

// Probe detects the installed version of the target program.
type Probe struct {
	// read extracts the embedded version string.
	read MetadataReader
}

// errNotAFile is returned when the executable path points to something other than a file.
var errNotAFile = errors.New("not a regular file")

// New returns a Probe reading the platform's native executable metadata.
func New() *Probe {
	return NewWithReader(readEmbeddedVersion)
}

// NewWithReader returns a Probe using a custom metadata reader.
func NewWithReader(read MetadataReader) *Probe {
	return &Probe{
		read: read,
	}
}

// LocalVersion returns the version of the executable at exePath, or nil when it does not exist.
// An unreadable, empty or malformed version field is reported as release.KindVersionParse.
func (p *Probe) LocalVersion(ctx context.Context, exePath string) (*version.Version, error) {
	info, err := os.Stat(exePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.DebugKV(ctx, "Target executable not found", "path", exePath)
		return nil, nil //nolint:nilnil // Absent version is a valid result.
	}

	if err != nil {
		return nil, release.Errorf(release.KindVersionParse, "stat %s: %w", exePath, err)
	}

	if !info.Mode().IsRegular() {
		return nil, release.Errorf(release.KindVersionParse, "%s: %w", exePath, errNotAFile)
	}

	raw, err := p.read(exePath)
	if err != nil {
		return nil, release.Errorf(release.KindVersionParse, "read version metadata of %s: %w", exePath, err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, release.Errorf(release.KindVersionParse, "%s has no embedded version", exePath)
	}

	logger.DebugKV(ctx, "Embedded version found", "path", exePath, "version", raw)

	return release.ParseVersion(raw)
}
