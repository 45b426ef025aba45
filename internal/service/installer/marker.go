package installer

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/oshokin/launch-stub/internal/domain/release"
	"github.com/oshokin/launch-stub/internal/logger"
)

// markerPath is the file announcing an install in progress.
func (i *Installer) markerPath() string {
	return i.installDir + markerSuffix
}

// acquireMarker writes the update marker and returns the func removing it.
func (i *Installer) acquireMarker(ctx context.Context) (func(), error) {
	if i.isInstallRunning(ctx) {
		return nil, release.Wrap(release.KindInstall, release.ErrInstallInProgress)
	}

	marker, err := os.OpenFile(i.markerPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, packageFileMode)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, release.Wrap(release.KindInstall, release.ErrInstallInProgress)
		}

		return nil, release.Errorf(release.KindInstall, "create update marker: %w", err)
	}

	_, _ = marker.WriteString(time.Now().UTC().Format(time.RFC3339))

	if err = marker.Close(); err != nil {
		return nil, release.Errorf(release.KindInstall, "close update marker: %w", err)
	}

	return func() {
		if removeErr := os.Remove(i.markerPath()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			logger.WarnKV(ctx, "Unable to remove update marker", "path", i.markerPath(), "error", removeErr)
		}
	}, nil
}

// isInstallRunning reports whether a fresh update marker exists. Stale markers are removed.
func (i *Installer) isInstallRunning(ctx context.Context) bool {
	info, err := os.Stat(i.markerPath())
	if err != nil {
		return false
	}

	age := time.Since(info.ModTime())
	if age < i.markerLifetime {
		logger.InfoKV(ctx, "Another install is in progress", "marker", i.markerPath(), "age", age.Round(time.Second))

		return true
	}

	logger.WarnKV(ctx, "Removing stale update marker", "marker", i.markerPath(), "age", age.Round(time.Second))

	_ = os.Remove(i.markerPath())

	return false
}
