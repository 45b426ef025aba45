package stub

import (
	"context"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/oshokin/launch-stub/internal/domain/release"
	"github.com/oshokin/launch-stub/internal/service/launcher"
)

// VersionProbe reads the installed version.
type VersionProbe interface {
	LocalVersion(ctx context.Context, exePath string) (*version.Version, error)
}

// ManifestFetcher retrieves the remote release manifest.
type ManifestFetcher interface {
	Fetch(ctx context.Context, url string) (*release.Manifest, error)
}

// PackageInstaller installs release packages.
type PackageInstaller interface {
	Install(ctx context.Context, m *release.Manifest) error
	Recover(ctx context.Context) error
}

// ProgramLauncher starts the target program.
type ProgramLauncher interface {
	Launch(ctx context.Context, spec launcher.Spec) (*launcher.Process, error)
}

// ProcessFinder reports whether an executable is running.
type ProcessFinder interface {
	IsRunning(executable string) (bool, error)
}

// Reporter shows progress to the user.
type Reporter interface {
	CurrentVersion(v *version.Version)
	CheckingForUpdates()
	Downloading(v *version.Version)
	Downloaded(size int64)
	UpToDate()
	Warn(message string)
}

// WaitFunc pauses for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Dependencies are the collaborators of a Runner. Nil fields get production implementations.
type Dependencies struct {
	Probe     VersionProbe
	Manifest  ManifestFetcher
	Installer PackageInstaller
	Launcher  ProgramLauncher
	Processes ProcessFinder
	Reporter  Reporter
	Wait      WaitFunc
}

// sleep is the production WaitFunc.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
