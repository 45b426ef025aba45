package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/oshokin/launch-stub/internal/domain/release"
)

// Layout is the set of filesystem locations used by the stub.
type Layout struct {
	// InstallDir holds the target program files.
	InstallDir string
	// StagingDir holds the downloaded package during an install attempt.
	StagingDir string
	// ExePath is the target executable inside InstallDir.
	ExePath string
	// LogFile is the diagnostic log destination, "-" for stdout.
	LogFile string
}

// stagingSuffix is appended to the program name to build the staging directory name.
const stagingSuffix = "Temp"

// ResolveLayout derives the filesystem layout for cfg on the current platform.
func ResolveLayout(cfg *Config) (*Layout, error) {
	dataDir, err := userDataDir()
	if err != nil {
		return nil, release.Errorf(release.KindConfig, "locate application data directory: %w", err)
	}

	installDir := filepath.Join(dataDir, cfg.ProgramName)

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(dataDir, cfg.ProgramName+"-stub.log")
	}

	return &Layout{
		InstallDir: installDir,
		StagingDir: filepath.Join(os.TempDir(), cfg.ProgramName+stagingSuffix),
		ExePath:    filepath.Join(installDir, ExecutableName(cfg.ProgramName)),
		LogFile:    logFile,
	}, nil
}

// ExecutableName returns the target file name: "<name>.exe" on Windows and "<name>" elsewhere.
func ExecutableName(programName string) string {
	if runtime.GOOS == "windows" {
		return programName + ".exe"
	}

	return programName
}

// userDataDir returns the per-user application data directory:
// %LOCALAPPDATA% on Windows, ~/Library/Application Support on macOS
// and $XDG_DATA_HOME (or ~/.local/share) elsewhere.
func userDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}

		return "", fmt.Errorf("%%LOCALAPPDATA%% is not defined: %w", os.ErrNotExist)
	case "darwin":
		return os.UserConfigDir()
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(dir) {
			return dir, nil
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		return filepath.Join(home, ".local", "share"), nil
	}
}
