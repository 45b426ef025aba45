//go:build !windows

package launcher

import (
	"os"
	"os/exec"
)

// elevationHelpers are tried in order when elevation is requested.
var elevationHelpers = []string{"pkexec", "sudo"}

// startProcess spawns the target directly, through an elevation helper when requested.
func startProcess(spec Spec, dir string) (*Process, error) {
	name, args := commandLine(spec, exec.LookPath)

	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	process := &Process{Pid: cmd.Process.Pid}

	_ = cmd.Process.Release()

	return process, nil
}

// commandLine returns the program and argument vector to execute.
// Elevation without an available helper starts the target unelevated.
func commandLine(spec Spec, lookPath func(string) (string, error)) (string, []string) {
	if !spec.Elevate {
		return spec.ExePath, spec.Args
	}

	for _, helper := range elevationHelpers {
		helperPath, err := lookPath(helper)
		if err != nil {
			continue
		}

		return helperPath, append([]string{spec.ExePath}, spec.Args...)
	}

	return spec.ExePath, spec.Args
}
