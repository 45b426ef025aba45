package installer

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/launch-stub/internal/domain/release"
)

// creatorUnix is the zip "version made by" host for archives carrying unix permissions.
const creatorUnix = 3

// extractArchive unpacks the zip archive at archivePath into targetDir.
func extractArchive(archivePath, targetDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return release.Errorf(release.KindInstall, "%w: open archive: %w", release.ErrExtraction, err)
	}

	defer func() {
		_ = reader.Close()
	}()

	for _, entry := range reader.File {
		if err = extractEntry(entry, targetDir); err != nil {
			return err
		}
	}

	return nil
}

// extractEntry writes a single archive entry below targetDir.
func extractEntry(entry *zip.File, targetDir string) error {
	target, isDir, err := resolveEntryPath(targetDir, entry.Name)
	if err != nil {
		return err
	}

	if isDir || entry.FileInfo().IsDir() {
		if err = os.MkdirAll(target, dirMode); err != nil {
			return release.Errorf(release.KindInstall, "%w: create %q: %w", release.ErrExtraction, entry.Name, err)
		}

		return nil
	}

	if err = os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return release.Errorf(release.KindInstall, "%w: create parent of %q: %w", release.ErrExtraction, entry.Name, err)
	}

	source, err := entry.Open()
	if err != nil {
		return release.Errorf(release.KindInstall, "%w: read %q: %w", release.ErrExtraction, entry.Name, err)
	}

	defer func() {
		_ = source.Close()
	}()

	destination, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, entryMode(entry))
	if err != nil {
		return release.Errorf(release.KindInstall, "%w: create %q: %w", release.ErrExtraction, entry.Name, err)
	}

	if _, err = io.Copy(destination, source); err != nil {
		_ = destination.Close()

		return release.Errorf(release.KindInstall, "%w: write %q: %w", release.ErrExtraction, entry.Name, err)
	}

	if err = destination.Close(); err != nil {
		return release.Errorf(release.KindInstall, "%w: write %q: %w", release.ErrExtraction, entry.Name, err)
	}

	return nil
}

// resolveEntryPath maps an archive entry name onto targetDir.
// Entries resolving outside targetDir, or to targetDir itself as a file, are rejected.
func resolveEntryPath(targetDir, name string) (string, bool, error) {
	slashed := strings.ReplaceAll(name, `\`, "/")
	isDir := strings.HasSuffix(slashed, "/")

	relative := filepath.FromSlash(strings.TrimRight(slashed, "/"))
	if relative == "" || relative == "." {
		if isDir {
			return targetDir, true, nil
		}

		return "", false, release.Errorf(release.KindInstall,
			"%w: entry %q has no parent directory", release.ErrExtraction, name)
	}

	if !filepath.IsLocal(relative) {
		return "", false, release.Errorf(release.KindInstall,
			"%w: entry %q escapes the install directory", release.ErrExtraction, name)
	}

	return filepath.Join(targetDir, relative), isDir, nil
}

// entryMode keeps unix permissions when the archive has them.
func entryMode(entry *zip.File) os.FileMode {
	if entry.CreatorVersion>>8 == creatorUnix {
		if perm := entry.Mode().Perm(); perm != 0 {
			return perm | 0o600
		}
	}

	return DefaultFileMode
}
