package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/launch-stub/internal/domain/release"
	"github.com/oshokin/launch-stub/internal/logger"
)

// Config holds the deployment identity and runtime tuning of the stub.
type Config struct {
	// ManifestURL is the absolute URL of the JSON release manifest.
	ManifestURL string
	// ProgramName names the install directory and the target executable.
	ProgramName string
	// RunElevated asks the OS to start the target with higher privileges.
	RunElevated bool
	// UseShellExecute starts the target through the OS shell integration.
	UseShellExecute bool
	// Timeout bounds every HTTP exchange (manifest and package).
	Timeout time.Duration
	// DegradedDelay is the pause after a failed update check before launching the old version.
	DegradedDelay time.Duration
	// LaunchDelay is the pause before the target is started.
	LaunchDelay time.Duration
	// LogLevel is the minimum level of diagnostic log entries.
	LogLevel string
	// LogFile is the diagnostic log destination. Empty selects the default file, "-" is stdout.
	LogFile string
}

// fileConfig mirrors Config for override files. Nil fields keep the built-in value.
type fileConfig struct {
	ManifestURL     *string `toml:"manifest_url"      yaml:"manifest_url"`
	ProgramName     *string `toml:"program_name"      yaml:"program_name"`
	RunElevated     *bool   `toml:"run_elevated"      yaml:"run_elevated"`
	UseShellExecute *bool   `toml:"use_shell_execute" yaml:"use_shell_execute"`
	Timeout         *string `toml:"timeout"           yaml:"timeout"`
	DegradedDelay   *string `toml:"degraded_delay"    yaml:"degraded_delay"`
	LaunchDelay     *string `toml:"launch_delay"      yaml:"launch_delay"`
	LogLevel        *string `toml:"log_level"         yaml:"log_level"`
	LogFile         *string `toml:"log_file"          yaml:"log_file"`
}

const (
	// DefaultTimeout is the default bound of a single HTTP exchange.
	DefaultTimeout = 10 * time.Minute

	// DefaultDegradedDelay is how long the degraded-mode warning stays on screen.
	DefaultDegradedDelay = 5 * time.Second

	// DefaultLaunchDelay is the pause before the target is started.
	DefaultLaunchDelay = 1 * time.Second

	// DefaultLogLevel is the default minimum level of diagnostic logs.
	DefaultLogLevel = "info"

	// StdoutLogFile selects standard output as the log destination.
	StdoutLogFile = "-"
)

// overrideExtensions lists the override file extensions in lookup order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var overrideExtensions = []string{".yaml", ".yml", ".toml"}

var (
	// errManifestURLRequired is returned when no manifest URL was provided.
	errManifestURLRequired = errors.New("manifest URL must be provided at build time or in the override file")
	// errProgramNameRequired is returned when no program name was provided.
	errProgramNameRequired = errors.New("program name must be provided at build time or in the override file")
	// errInvalidProgramName is returned when the program name is not a plain file name.
	errInvalidProgramName = errors.New("program name must be a plain file name")
	// errNegativeDelay is returned when a delay is below zero.
	errNegativeDelay = errors.New("delay must not be negative")
	// errUnknownLogLevel is returned for unsupported log level names.
	errUnknownLogLevel = errors.New("unknown log level")
	// errUnsupportedFormat is returned for override files with an unknown extension.
	errUnsupportedFormat = errors.New("unsupported configuration format")
)

// Defaults returns the configuration baked into the binary.
func Defaults() (*Config, error) {
	runElevated, err := parseBuildBool("RunElevated", RunElevated)
	if err != nil {
		return nil, err
	}

	useShellExecute, err := parseBuildBool("UseShellExecute", UseShellExecute)
	if err != nil {
		return nil, err
	}

	return &Config{
		ManifestURL:     strings.TrimSpace(ManifestURL),
		ProgramName:     strings.TrimSpace(ProgramName),
		RunElevated:     runElevated,
		UseShellExecute: useShellExecute,
		Timeout:         DefaultTimeout,
		DegradedDelay:   DefaultDegradedDelay,
		LaunchDelay:     DefaultLaunchDelay,
		LogLevel:        DefaultLogLevel,
	}, nil
}

// Load builds the configuration from the baked defaults and the optional override file at path,
// then validates it. An empty path means "no override file".
// Every failure is classified as release.KindConfig.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err = applyOverrideFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindOverrideFile returns the override file next to the executable at exePath,
// e.g. launch-stub.yaml for launch-stub.exe, or "" when there is none.
func FindOverrideFile(exePath string) string {
	base := strings.TrimSuffix(exePath, filepath.Ext(exePath))

	for _, ext := range overrideExtensions {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	return ""
}

// Validate checks required fields and fills defaults for unset tuning values.
func Validate(cfg *Config) error {
	if cfg.ManifestURL == "" {
		return release.Wrap(release.KindConfig, errManifestURLRequired)
	}

	manifestURL, err := url.ParseRequestURI(cfg.ManifestURL)
	if err != nil || !manifestURL.IsAbs() || manifestURL.Host == "" {
		return release.Errorf(release.KindConfig, "invalid manifest URL %q", cfg.ManifestURL)
	}

	if cfg.ProgramName == "" {
		return release.Wrap(release.KindConfig, errProgramNameRequired)
	}

	if strings.ContainsAny(cfg.ProgramName, `/\`) || cfg.ProgramName == "." || cfg.ProgramName == ".." {
		return release.Errorf(release.KindConfig, "%q: %w", cfg.ProgramName, errInvalidProgramName)
	}

	// Set default timeout if not specified.
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.DegradedDelay < 0 || cfg.LaunchDelay < 0 {
		return release.Wrap(release.KindConfig, errNegativeDelay)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return release.Errorf(release.KindConfig, "%q: %w", cfg.LogLevel, errUnknownLogLevel)
	}

	return nil
}

// applyOverrideFile decodes the file at path and copies the fields it sets onto cfg.
func applyOverrideFile(cfg *Config, path string) error {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return release.Errorf(release.KindConfig, "read settings: %w", err)
	}

	var overrides fileConfig

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(contents, &overrides)
	case ".toml":
		err = toml.Unmarshal(contents, &overrides)
	default:
		return release.Errorf(release.KindConfig, "%s: %w", path, errUnsupportedFormat)
	}

	if err != nil {
		return release.Errorf(release.KindConfig, "unmarshal settings: %w", err)
	}

	return overrides.applyTo(cfg)
}

// applyTo copies the set fields onto cfg.
func (f *fileConfig) applyTo(cfg *Config) error {
	setString(&cfg.ManifestURL, f.ManifestURL)
	setString(&cfg.ProgramName, f.ProgramName)
	setString(&cfg.LogLevel, f.LogLevel)
	setString(&cfg.LogFile, f.LogFile)

	if f.RunElevated != nil {
		cfg.RunElevated = *f.RunElevated
	}

	if f.UseShellExecute != nil {
		cfg.UseShellExecute = *f.UseShellExecute
	}

	durations := []struct {
		name  string
		raw   *string
		value *time.Duration
	}{
		{name: "timeout", raw: f.Timeout, value: &cfg.Timeout},
		{name: "degraded_delay", raw: f.DegradedDelay, value: &cfg.DegradedDelay},
		{name: "launch_delay", raw: f.LaunchDelay, value: &cfg.LaunchDelay},
	}

	for _, d := range durations {
		if d.raw == nil {
			continue
		}

		parsed, err := time.ParseDuration(strings.TrimSpace(*d.raw))
		if err != nil {
			return release.Errorf(release.KindConfig, "%s: %w", d.name, err)
		}

		*d.value = parsed
	}

	return nil
}

func setString(dst, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// parseBuildBool parses a boolean injected at build time.
func parseBuildBool(name, raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, release.Errorf(release.KindConfig, "build-time %s=%q: %w", name, raw, err)
	}

	return value, nil
}

// Describe returns a short summary suitable for diagnostic logs.
func (c *Config) Describe() string {
	return fmt.Sprintf("manifest=%s program=%s elevated=%t shell=%t",
		c.ManifestURL, c.ProgramName, c.RunElevated, c.UseShellExecute)
}
