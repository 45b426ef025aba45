package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"panic": zapcore.PanicLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestConfigure_FileDestination verifies logs land in the configured file at the configured level.
//
//nolint:paralleltest // Configure swaps the global logger.
func TestConfigure_FileDestination(t *testing.T) {
	prevLogger, prevLevel := Logger(), Level()

	t.Cleanup(func() {
		SetLogger(prevLogger)
		SetLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "app-stub.log")

	closeLog, err := Configure("warn", path)
	require.NoError(t, err)

	ctx := WithName(context.Background(), "launch-stub")
	Info(ctx, "hidden below warn")
	WarnKV(ctx, "Update check failed", "attempt", 1)
	closeLog()

	rotated, err := filepath.Glob(filepath.Join(filepath.Dir(path), "app-stub-*.log"))
	require.NoError(t, err)
	require.Len(t, rotated, 1)

	contents, err := os.ReadFile(rotated[0])
	require.NoError(t, err)
	require.Contains(t, string(contents), "Update check failed")
	require.Contains(t, string(contents), "launch-stub")
	require.NotContains(t, string(contents), "hidden below warn")

	_, err = Configure("loud", path)
	require.Error(t, err)
}

// TestRotatedPattern verifies the date stamp is inserted before the extension.
func TestRotatedPattern(t *testing.T) {
	t.Parallel()

	require.Equal(t, filepath.Join("data", "app-stub-%Y%m%d.log"), RotatedPattern(filepath.Join("data", "app-stub.log")))
	require.Equal(t, "stub-%Y%m%d", RotatedPattern("stub"))
}

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))

	named := Logger().Named("probe")
	ctx := ToContext(context.Background(), named)
	require.Same(t, named, FromContext(ctx))
	require.NotSame(t, named, FromContext(WithKV(ctx, "path", "/tmp/app")))
}
