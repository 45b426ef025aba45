package launcher

import (
	"context"
	"os"
	"path/filepath"

	"github.com/oshokin/launch-stub/internal/domain/release"
	"github.com/oshokin/launch-stub/internal/logger"
)

// Spec describes a launch request.
type Spec struct {
	// ExePath is the absolute path of the target executable.
	ExePath string
	// Args are forwarded verbatim.
	Args []string
	// Elevate requests administrative privileges.
	Elevate bool
	// UseShell starts the target through the platform shell.
	UseShell bool
}

// Process identifies a started program. Pid is zero when the platform shell started it.
type Process struct {
	Pid int
}

// starter spawns the program described by spec with dir as working directory.
type starter func(spec Spec, dir string) (*Process, error)

// Launcher starts target programs.
type Launcher struct {
	start starter
}

// New returns a Launcher using the platform start strategy.
func New() *Launcher {
	return &Launcher{start: startProcess}
}

// Launch starts spec.ExePath in its own directory and returns immediately.
// The child is not bound to ctx, so it outlives the caller.
func (l *Launcher) Launch(ctx context.Context, spec Spec) (*Process, error) {
	info, err := os.Stat(spec.ExePath)
	if err != nil {
		return nil, release.Errorf(release.KindLaunch, "target executable %q: %w", spec.ExePath, err)
	}

	if info.IsDir() {
		return nil, release.Errorf(release.KindLaunch, "target executable %q is a directory", spec.ExePath)
	}

	dir := filepath.Dir(spec.ExePath)

	logger.InfoKV(ctx, "Launching target",
		"path", spec.ExePath,
		"args", len(spec.Args),
		"elevate", spec.Elevate,
		"shell", spec.UseShell)

	process, err := l.start(spec, dir)
	if err != nil {
		return nil, release.Errorf(release.KindLaunch, "start %q: %w", spec.ExePath, err)
	}

	logger.DebugKV(ctx, "Target started", "pid", process.Pid)

	return process, nil
}
