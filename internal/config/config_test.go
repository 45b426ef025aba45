package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/launch-stub/internal/domain/release"
)

// TestValidate checks required fields, format validations and defaults.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing manifest URL.
	err := Validate(&Config{ProgramName: "app"})
	require.ErrorIs(t, err, release.ErrConfig)

	// Relative manifest URL.
	err = Validate(&Config{ManifestURL: "/manifest.json", ProgramName: "app"})
	require.ErrorIs(t, err, release.ErrConfig)

	// Missing program name.
	err = Validate(&Config{ManifestURL: "https://example.test/manifest.json"})
	require.ErrorIs(t, err, release.ErrConfig)

	// Program name with a path separator.
	err = Validate(&Config{ManifestURL: "https://example.test/manifest.json", ProgramName: "../app"})
	require.ErrorIs(t, err, release.ErrConfig)

	// Unknown log level.
	err = Validate(&Config{ManifestURL: "https://example.test/manifest.json", ProgramName: "app", LogLevel: "loud"})
	require.ErrorIs(t, err, release.ErrConfig)

	// Okay, defaults filled.
	cfg := &Config{ManifestURL: "https://example.test/manifest.json", ProgramName: "app"}
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

// TestLoad_YAMLOverride ensures a YAML override file supplies and replaces values.
func TestLoad_YAMLOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "launch-stub.yaml")
	contents := `manifest_url: https://updates.example.test/app/manifest.json
program_name: app
run_elevated: true
degraded_delay: 2s
launch_delay: 0s
log_level: debug
log_file: "-"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://updates.example.test/app/manifest.json", cfg.ManifestURL)
	require.Equal(t, "app", cfg.ProgramName)
	require.True(t, cfg.RunElevated)
	require.False(t, cfg.UseShellExecute)
	require.Equal(t, 2*time.Second, cfg.DegradedDelay)
	require.Equal(t, time.Duration(0), cfg.LaunchDelay)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, StdoutLogFile, cfg.LogFile)
}

// TestLoad_TOMLOverride ensures TOML override files are decoded the same way.
func TestLoad_TOMLOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "launch-stub.toml")
	contents := `manifest_url = "https://updates.example.test/app/manifest.json"
program_name = "app"
use_shell_execute = true
timeout = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "app", cfg.ProgramName)
	require.True(t, cfg.UseShellExecute)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.Equal(t, DefaultDegradedDelay, cfg.DegradedDelay)
}

// TestLoad_Failures covers missing constants, bad durations and unknown formats.
func TestLoad_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Nothing baked in and no override file.
	_, err := Load("")
	require.ErrorIs(t, err, release.ErrConfig)

	badDuration := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badDuration, []byte("timeout: soon\n"), 0o600))

	_, err = Load(badDuration)
	require.ErrorIs(t, err, release.ErrConfig)

	unknownFormat := filepath.Join(dir, "settings.ini")
	require.NoError(t, os.WriteFile(unknownFormat, []byte("x=1\n"), 0o600))

	_, err = Load(unknownFormat)
	require.ErrorIs(t, err, release.ErrConfig)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, release.ErrConfig)
}

// TestDefaults_BuildValues verifies values injected at build time are parsed and validated.
func TestDefaults_BuildValues(t *testing.T) {
	prevURL, prevName, prevElevated, prevShell := ManifestURL, ProgramName, RunElevated, UseShellExecute

	t.Cleanup(func() {
		ManifestURL, ProgramName, RunElevated, UseShellExecute = prevURL, prevName, prevElevated, prevShell
	})

	ManifestURL = "https://updates.example.test/manifest.json"
	ProgramName = "app"
	RunElevated = "true"
	UseShellExecute = ""

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "app", cfg.ProgramName)
	require.True(t, cfg.RunElevated)
	require.False(t, cfg.UseShellExecute)

	RunElevated = "sometimes"

	_, err = Load("")
	require.ErrorIs(t, err, release.ErrConfig)
}

// TestFindOverrideFile checks the override file is looked up next to the executable.
func TestFindOverrideFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exePath := filepath.Join(dir, "launch-stub.exe")

	require.Empty(t, FindOverrideFile(exePath))

	tomlPath := filepath.Join(dir, "launch-stub.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("program_name = \"app\"\n"), 0o600))
	require.Equal(t, tomlPath, FindOverrideFile(exePath))

	yamlPath := filepath.Join(dir, "launch-stub.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("program_name: app\n"), 0o600))
	require.Equal(t, yamlPath, FindOverrideFile(exePath))
}
