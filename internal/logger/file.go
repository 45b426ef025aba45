package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap/zapcore"
)

const (
	// fileLogMaxAge is how long rotated log files are kept.
	fileLogMaxAge = 7 * 24 * time.Hour
	// fileLogRotationTime is the interval between log files.
	fileLogRotationTime = 24 * time.Hour
)

// errUnknownLevel is returned by Configure for unsupported level names.
var errUnknownLevel = errors.New("unknown log level")

// Configure points the global logger at path ("-" for stdout) with the named level.
// File logs rotate daily into "<name>-YYYYMMDD<ext>" next to path; outside Windows
// path itself is kept as a link to the current file.
// The returned function flushes and closes the destination.
func Configure(level, path string) (func(), error) {
	parsed, ok := ParseLogLevel(level)
	if !ok {
		return nil, fmt.Errorf("%q: %w", level, errUnknownLevel)
	}

	SetLevel(parsed)

	if path == "" || path == "-" {
		SetLogger(New(defaultLevel))

		return func() {
			_ = global.Sync()
		}, nil
	}

	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	options := []rotatelogs.Option{
		rotatelogs.WithMaxAge(fileLogMaxAge),
		rotatelogs.WithRotationTime(fileLogRotationTime),
	}

	// Symlinks need extra privileges on Windows.
	if runtime.GOOS != "windows" {
		options = append(options, rotatelogs.WithLinkName(path))
	}

	fileLog, err := rotatelogs.New(RotatedPattern(path), options...)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	SetLogger(NewWithOutput(defaultLevel, zapcore.AddSync(fileLog), false))

	return func() {
		_ = global.Sync()
		_ = fileLog.Close()
	}, nil
}

// RotatedPattern returns the strftime pattern of the rotated files backing path.
func RotatedPattern(path string) string {
	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + "-%Y%m%d" + ext
}
