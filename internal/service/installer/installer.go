package installer

import (
	"context"
	"crypto"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/launch-stub/internal/domain/release"
	"github.com/oshokin/launch-stub/internal/logger"
	"github.com/oshokin/launch-stub/internal/version"

	// Ensure SHA512 available for checksum verification.
	_ "crypto/sha512"
)

const (
	// DefaultFileMode is used for extracted files that carry no unix permissions.
	DefaultFileMode os.FileMode = 0o755

	// DefaultChecksumFunction verifies downloaded packages.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512

	// DefaultMarkerLifetime is the period after which an update marker is considered stale.
	DefaultMarkerLifetime = 10 * time.Minute

	// dirMode is used for every directory created by the installer.
	dirMode os.FileMode = 0o755

	// packageFileMode is used for the downloaded package.
	packageFileMode os.FileMode = 0o600

	// fallbackPackageName is used when the download URL has no usable trailing segment.
	fallbackPackageName = "package.zip"

	// Suffixes of the directories living next to the install directory.
	newDirSuffix = ".new"
	oldDirSuffix = ".old"
	markerSuffix = ".update-marker"
)

// Installer applies release packages to a single install directory.
type Installer struct {
	// installDir is the live installation.
	installDir string
	// stagingDir receives the downloaded package.
	stagingDir string
	// httpClient downloads packages.
	httpClient *http.Client
	// onDownloaded is notified with the package size once the download completes.
	onDownloaded func(size int64)
	// markerLifetime bounds how long another stub's update marker is honoured.
	markerLifetime time.Duration
}

// Option configures installer behaviour.
type Option func(*Installer)

// WithHTTPClient sets the client used for package downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(i *Installer) {
		if client != nil {
			i.httpClient = client
		}
	}
}

// WithDownloadObserver registers a callback invoked once the package is fully downloaded.
func WithDownloadObserver(observer func(size int64)) Option {
	return func(i *Installer) {
		i.onDownloaded = observer
	}
}

// WithMarkerLifetime overrides DefaultMarkerLifetime.
func WithMarkerLifetime(lifetime time.Duration) Option {
	return func(i *Installer) {
		if lifetime > 0 {
			i.markerLifetime = lifetime
		}
	}
}

// New returns an Installer for installDir using stagingDir as scratch space.
func New(installDir, stagingDir string, opts ...Option) *Installer {
	i := &Installer{
		installDir:     filepath.Clean(installDir),
		stagingDir:     filepath.Clean(stagingDir),
		httpClient:     http.DefaultClient,
		markerLifetime: DefaultMarkerLifetime,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Install downloads the package described by m and replaces the installation with its contents.
// All failures are classified as release.KindInstall.
func (i *Installer) Install(ctx context.Context, m *release.Manifest) error {
	ctx = logger.WithKV(ctx, "install_dir", i.installDir)

	if err := os.MkdirAll(filepath.Dir(i.installDir), dirMode); err != nil {
		return release.Errorf(release.KindInstall, "create application data directory: %w", err)
	}

	releaseMarker, err := i.acquireMarker(ctx)
	if err != nil {
		return err
	}

	defer releaseMarker()

	packageName := packageFileName(m.DownloadURL)

	// Leftovers of a crashed run must never leak into this attempt.
	if err = resetDir(i.stagingDir); err != nil {
		return release.Errorf(release.KindInstall, "prepare staging area: %w", err)
	}

	defer i.cleanup(ctx)

	if err = os.MkdirAll(i.installDir, dirMode); err != nil {
		return release.Errorf(release.KindInstall, "create install directory: %w", err)
	}

	downloadURL, err := parseAbsoluteURL(m.DownloadURL)
	if err != nil {
		return err
	}

	packagePath := filepath.Join(i.stagingDir, packageName)

	logger.InfoKV(ctx, "Downloading package", "url", downloadURL.String(), "path", packagePath)

	size, err := i.download(ctx, downloadURL, packagePath, m.Checksum)
	if err != nil {
		return err
	}

	if i.onDownloaded != nil {
		i.onDownloaded(size)
	}

	newDir := i.installDir + newDirSuffix
	if err = resetDir(newDir); err != nil {
		return release.Errorf(release.KindInstall, "prepare extraction directory: %w", err)
	}

	logger.InfoKV(ctx, "Extracting package", "target", newDir)

	if err = extractArchive(packagePath, newDir); err != nil {
		return err
	}

	if err = i.promote(ctx, newDir); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Package installed", "version", release.DescribeVersion(m.Version))

	return nil
}

// Recover repairs the install directory after a crash in the middle of a swap
// and removes stale extraction leftovers. It does nothing while another stub is installing.
func (i *Installer) Recover(ctx context.Context) error {
	if i.isInstallRunning(ctx) {
		return nil
	}

	oldDir := i.installDir + oldDirSuffix

	_, installErr := os.Stat(i.installDir)
	_, oldErr := os.Stat(oldDir)

	switch {
	case errors.Is(installErr, os.ErrNotExist) && oldErr == nil:
		logger.WarnKV(ctx, "Restoring installation interrupted during swap", "from", oldDir)

		if err := os.Rename(oldDir, i.installDir); err != nil {
			return release.Errorf(release.KindInstall, "restore previous installation: %w", err)
		}
	case installErr == nil && oldErr == nil:
		logger.InfoKV(ctx, "Removing previous installation left behind", "path", oldDir)

		if err := os.RemoveAll(oldDir); err != nil {
			logger.WarnKV(ctx, "Unable to remove previous installation", "path", oldDir, "error", err)
		}
	}

	newDir := i.installDir + newDirSuffix
	if _, err := os.Stat(newDir); err == nil {
		logger.InfoKV(ctx, "Removing partial extraction", "path", newDir)

		if err = os.RemoveAll(newDir); err != nil {
			logger.WarnKV(ctx, "Unable to remove partial extraction", "path", newDir, "error", err)
		}
	}

	return nil
}

// download stores the package body at packagePath, verifying checksum when it is set.
func (i *Installer) download(ctx context.Context, downloadURL *url.URL, packagePath string, checksum []byte) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL.String(), http.NoBody)
	if err != nil {
		return 0, release.Errorf(release.KindInstall, "%w: build request: %w", release.ErrDownload, err)
	}

	req.Header.Set("User-Agent", version.UserAgent())

	response, err := i.httpClient.Do(req)
	if err != nil {
		return 0, release.Errorf(release.KindInstall, "%w: %w", release.ErrDownload, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return 0, release.Errorf(release.KindInstall, "%w: %s, %s: %w",
			release.ErrDownload, downloadURL, response.Status, release.ErrBadHTTPStatus)
	}

	// go-update moves the existing target aside before renaming the new file in,
	// so the target has to exist.
	placeholder, err := os.OpenFile(packagePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, packageFileMode)
	if err != nil {
		return 0, release.Errorf(release.KindInstall, "%w: %w", release.ErrDownload, err)
	}

	if err = placeholder.Close(); err != nil {
		return 0, release.Errorf(release.KindInstall, "%w: %w", release.ErrDownload, err)
	}

	body := &countingReader{reader: response.Body}

	options := &goupdate.Options{
		TargetPath: packagePath,
		TargetMode: packageFileMode,
		Checksum:   checksum,
		Hash:       DefaultChecksumFunction,
	}

	if err = goupdate.Apply(body, *options); err != nil {
		return 0, release.Errorf(release.KindInstall, "%w: %w", release.ErrDownload, err)
	}

	logger.DebugKV(ctx, "Package downloaded", "bytes", body.count, "verified", checksum != nil)

	return body.count, nil
}

// promote swaps newDir into the install directory.
func (i *Installer) promote(ctx context.Context, newDir string) error {
	oldDir := i.installDir + oldDirSuffix

	if err := os.RemoveAll(oldDir); err != nil {
		return release.Errorf(release.KindInstall, "remove stale previous installation: %w", err)
	}

	if _, err := os.Stat(i.installDir); err == nil {
		if err = os.Rename(i.installDir, oldDir); err != nil {
			return release.Errorf(release.KindInstall, "move current installation aside: %w", err)
		}
	}

	if err := os.Rename(newDir, i.installDir); err != nil {
		if _, statErr := os.Stat(oldDir); statErr == nil {
			_ = os.Rename(oldDir, i.installDir)
		}

		return release.Errorf(release.KindInstall, "move new installation into place: %w", err)
	}

	if err := os.RemoveAll(oldDir); err != nil {
		logger.WarnKV(ctx, "Unable to remove previous installation", "path", oldDir, "error", err)
	}

	return nil
}

// cleanup removes the staging area and any partial extraction.
func (i *Installer) cleanup(ctx context.Context) {
	for _, dir := range []string{i.stagingDir, i.installDir + newDirSuffix} {
		if err := os.RemoveAll(dir); err != nil {
			logger.WarnKV(ctx, "Unable to remove temporary directory", "path", dir, "error", err)
		}
	}
}

// parseAbsoluteURL validates the download location.
func parseAbsoluteURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, release.Errorf(release.KindInstall, "unable to parse URL %q: %w", raw, release.ErrInvalidURL)
	}

	if !parsed.IsAbs() || parsed.Host == "" {
		return nil, release.Errorf(release.KindInstall, "URL %q is not absolute: %w", raw, release.ErrInvalidURL)
	}

	return parsed, nil
}

// packageFileName derives the staging file name from the trailing path segment of rawURL.
func packageFileName(rawURL string) string {
	segment := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		segment = parsed.Path
	}

	name := path.Base(strings.ReplaceAll(segment, `\`, "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return fallbackPackageName
	}

	return name
}

// resetDir removes dir recursively and recreates it empty.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}

	return os.MkdirAll(dir, dirMode)
}

// countingReader counts bytes passing through it.
type countingReader struct {
	reader io.Reader
	count  int64
}

// Read implements io.Reader.
func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.count += int64(n)

	return n, err
}

