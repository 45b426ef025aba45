package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/launch-stub/internal/console"
	"github.com/oshokin/launch-stub/internal/domain/release"
	"github.com/oshokin/launch-stub/internal/logger"
	"github.com/oshokin/launch-stub/internal/service/stub"
)

// launchScript records its arguments next to itself.
const launchScript = "#!/bin/sh\nprintf '%s\\n' \"$@\" > launched.tmp && mv launched.tmp launched.txt\n"

// TestRun_FullPipeline drives the CLI entry point with an override file, a real install and a real launch.
func TestRun_FullPipeline(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG data directories and /bin/sh")
	}

	root := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "share"))
	t.Setenv("TMPDIR", filepath.Join(root, "tmp"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tmp"), 0o755))

	payload := buildPackage(t, map[string]string{"stubapp": launchScript}, 0o755)
	server := newReleaseServer(t, `{"version":"1.0.0","download":"{{base}}/stubapp-1.0.0.zip"}`, payload)

	logFile := filepath.Join(root, "stub.log")
	overridePath := filepath.Join(root, "launch-stub.yaml")
	override := "manifest_url: " + server.URL + "/manifest.json\n" +
		"program_name: stubapp\n" +
		"launch_delay: 0s\n" +
		"degraded_delay: 0s\n" +
		"log_level: debug\n" +
		"log_file: " + logFile + "\n"
	require.NoError(t, os.WriteFile(overridePath, []byte(override), 0o600))

	t.Cleanup(func() {
		logger.SetLogger(logger.New(nil))
	})

	var output bytes.Buffer

	err := stub.Run(context.Background(), &stub.Options{
		ConfigPath: overridePath,
		Args:       []string{"--flag", "two words"},
		Reporter:   console.NewWithIO(&output, strings.NewReader(""), false),
	})
	require.NoError(t, err)

	installDir := filepath.Join(root, "share", "stubapp")
	recorded := filepath.Join(installDir, "launched.txt")

	require.Eventually(t, func() bool {
		_, statErr := os.Stat(recorded)

		return statErr == nil
	}, 5*time.Second, 20*time.Millisecond)

	content, err := os.ReadFile(recorded)
	require.NoError(t, err)
	require.Equal(t, "--flag\ntwo words\n", string(content))

	require.NoDirExists(t, filepath.Join(root, "tmp", "stubappTemp"))
	require.Contains(t, output.String(), "Current version: not installed")
	require.Contains(t, output.String(), "Downloading new version... (1.0.0)")

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(logged), "Package installed")
}

// TestRun_ConfigError fails before any work when the manifest URL is missing.
func TestRun_ConfigError(t *testing.T) {
	t.Parallel()

	overridePath := filepath.Join(t.TempDir(), "launch-stub.toml")
	require.NoError(t, os.WriteFile(overridePath, []byte(`program_name = "stubapp"`+"\n"), 0o600))

	var output bytes.Buffer

	err := stub.Run(context.Background(), &stub.Options{
		ConfigPath: overridePath,
		Reporter:   console.NewWithIO(&output, strings.NewReader(""), false),
	})
	require.ErrorIs(t, err, release.ErrConfig)
	require.Empty(t, output.String())
}
