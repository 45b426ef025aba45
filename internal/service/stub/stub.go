package stub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"github.com/oshokin/launch-stub/internal/config"
	"github.com/oshokin/launch-stub/internal/console"
	"github.com/oshokin/launch-stub/internal/domain/release"
	"github.com/oshokin/launch-stub/internal/logger"
	"github.com/oshokin/launch-stub/internal/service/installer"
	"github.com/oshokin/launch-stub/internal/service/launcher"
	"github.com/oshokin/launch-stub/internal/service/manifest"
	"github.com/oshokin/launch-stub/internal/service/probe"
	"github.com/oshokin/launch-stub/internal/service/process"
	ver "github.com/oshokin/launch-stub/internal/version"
)

// updateCheckFailedPrefix starts the warning shown when the manifest step fails.
const updateCheckFailedPrefix = "Error checking for updates: "

// Options are inputs accepted by the stub entry point.
type Options struct {
	// ConfigPath is the optional override file; empty means built-in configuration only.
	ConfigPath string
	// Args are forwarded verbatim to the target program.
	Args []string
	// Reporter receives status lines; nil selects the process console.
	Reporter Reporter
}

// Runner executes the update-then-launch flow for one configuration.
type Runner struct {
	cfg       *config.Config
	layout    *config.Layout
	probe     VersionProbe
	manifest  ManifestFetcher
	installer PackageInstaller
	launcher  ProgramLauncher
	processes ProcessFinder
	reporter  Reporter
	wait      WaitFunc
}

// Run loads the configuration, wires the production collaborators and executes the flow.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	layout, err := config.ResolveLayout(cfg)
	if err != nil {
		return err
	}

	closeLog, err := logger.Configure(cfg.LogLevel, layout.LogFile)
	if err != nil {
		// Diagnostics are optional, the program must still start.
		logger.SetLogger(zap.NewNop().Sugar())

		closeLog = func() {}
	}

	defer closeLog()

	ctx = logger.WithName(ctx, ver.Name)

	logger.InfoKV(ctx, "Starting",
		"build", ver.Full(),
		"config", cfg.Describe(),
		"override", opts.ConfigPath,
		"install_dir", layout.InstallDir)

	runner := NewRunner(cfg, layout, Dependencies{Reporter: opts.Reporter})
	if err = runner.Execute(ctx, opts.Args); err != nil {
		logger.ErrorKV(ctx, "Run failed", "kind", release.KindOf(err).String(), "error", err)

		return err
	}

	logger.Info(ctx, "Run completed")

	return nil
}

// NewRunner returns a Runner for cfg and layout, filling missing dependencies.
// The manifest client and the installer share one HTTP client bounded by cfg.Timeout.
func NewRunner(cfg *config.Config, layout *config.Layout, deps Dependencies) *Runner {
	r := &Runner{
		cfg:       cfg,
		layout:    layout,
		probe:     deps.Probe,
		manifest:  deps.Manifest,
		installer: deps.Installer,
		launcher:  deps.Launcher,
		processes: deps.Processes,
		reporter:  deps.Reporter,
		wait:      deps.Wait,
	}

	if r.reporter == nil {
		r.reporter = console.New()
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	if r.probe == nil {
		r.probe = probe.New()
	}

	if r.manifest == nil {
		r.manifest = manifest.New(httpClient)
	}

	if r.installer == nil {
		r.installer = installer.New(layout.InstallDir, layout.StagingDir,
			installer.WithHTTPClient(httpClient),
			installer.WithDownloadObserver(r.reporter.Downloaded))
	}

	if r.launcher == nil {
		r.launcher = launcher.New()
	}

	if r.processes == nil {
		r.processes = process.New()
	}

	if r.wait == nil {
		r.wait = sleep
	}

	return r
}

// Execute runs the flow once and starts the target with args.
func (r *Runner) Execute(ctx context.Context, args []string) error {
	local := r.probeLocal(ctx)

	r.reporter.CheckingForUpdates()

	remote, err := r.manifest.Fetch(ctx, r.cfg.ManifestURL)

	switch {
	case err != nil:
		if err = r.degrade(ctx, local, err, updateCheckFailedPrefix+err.Error()); err != nil {
			return err
		}
	case release.NeedsUpdate(local, remote.Version):
		if err = r.update(ctx, local, remote); err != nil {
			return err
		}
	default:
		logger.InfoKV(ctx, "Installed version is current",
			"local", release.DescribeVersion(local),
			"remote", release.DescribeVersion(remote.Version))

		r.reporter.UpToDate()
	}

	return r.launch(ctx, args)
}

// probeLocal repairs an interrupted install and returns the installed version, nil when unknown.
func (r *Runner) probeLocal(ctx context.Context) *version.Version {
	if err := r.installer.Recover(ctx); err != nil {
		logger.WarnKV(ctx, "Unable to recover install directory", "error", err)
	}

	local, err := r.probe.LocalVersion(ctx, r.layout.ExePath)
	if err != nil {
		logger.WarnKV(ctx, "Installed version is unreadable, treating as not installed", "error", err)

		local = nil
	}

	logger.InfoKV(ctx, "Installed version", "version", release.DescribeVersion(local))
	r.reporter.CurrentVersion(local)

	return local
}

// update installs remote unless the installed program is running.
func (r *Runner) update(ctx context.Context, local *version.Version, remote *release.Manifest) error {
	ctx = logger.WithFields(ctx,
		"local", release.DescribeVersion(local),
		"remote", release.DescribeVersion(remote.Version))

	if local != nil && r.isTargetRunning(ctx) {
		logger.Warn(ctx, "Target is running, update postponed")
		r.reporter.Warn(fmt.Sprintf("%s is running, update to %s postponed",
			r.cfg.ProgramName, release.DescribeVersion(remote.Version)))

		return nil
	}

	r.reporter.Downloading(remote.Version)

	err := r.installer.Install(ctx, remote)
	if err == nil {
		return nil
	}

	if errors.Is(err, release.ErrInstallInProgress) {
		return r.degrade(ctx, local, err, "Update skipped: "+err.Error())
	}

	return err
}

// isTargetRunning reports whether the target executable is running. Lookup failures count as not running.
func (r *Runner) isTargetRunning(ctx context.Context) bool {
	running, err := r.processes.IsRunning(filepath.Base(r.layout.ExePath))
	if err != nil {
		logger.WarnKV(ctx, "Unable to inspect running processes", "error", err)

		return false
	}

	return running
}

// degrade keeps the existing installation after a recoverable failure.
// Without a local version cause is returned unchanged.
func (r *Runner) degrade(ctx context.Context, local *version.Version, cause error, message string) error {
	if local == nil {
		return cause
	}

	logger.WarnKV(ctx, "Falling back to installed version",
		"version", local.Original(),
		"kind", release.KindOf(cause).String(),
		"error", cause)

	r.reporter.Warn(message)

	return r.wait(ctx, r.cfg.DegradedDelay)
}

// launch starts the target after the launch delay.
func (r *Runner) launch(ctx context.Context, args []string) error {
	if err := r.wait(ctx, r.cfg.LaunchDelay); err != nil {
		return err
	}

	_, err := r.launcher.Launch(ctx, launcher.Spec{
		ExePath:  r.layout.ExePath,
		Args:     args,
		Elevate:  r.cfg.RunElevated,
		UseShell: r.cfg.UseShellExecute,
	})

	return err
}
