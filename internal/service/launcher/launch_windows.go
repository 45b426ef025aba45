//go:build windows

package launcher

import (
	"os"
	"os/exec"

	"golang.org/x/sys/windows"
)

// Shell verbs.
const (
	verbOpen  = "open"
	verbRunAs = "runas"
)

// startProcess spawns the target directly, or through ShellExecute for elevated and shell launches.
func startProcess(spec Spec, dir string) (*Process, error) {
	switch {
	case spec.Elevate:
		return shellExecute(verbRunAs, spec, dir)
	case spec.UseShell:
		return shellExecute(verbOpen, spec, dir)
	}

	cmd := exec.Command(spec.ExePath, spec.Args...)
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

// shellExecute hands the launch to the Windows shell with verb.
func shellExecute(verb string, spec Spec, dir string) (*Process, error) {
	verbPtr, err := windows.UTF16PtrFromString(verb)
	if err != nil {
		return nil, err
	}

	filePtr, err := windows.UTF16PtrFromString(spec.ExePath)
	if err != nil {
		return nil, err
	}

	dirPtr, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return nil, err
	}

	var argsPtr *uint16

	if len(spec.Args) > 0 {
		argsPtr, err = windows.UTF16PtrFromString(windows.ComposeCommandLine(spec.Args))
		if err != nil {
			return nil, err
		}
	}

	if err = windows.ShellExecute(0, verbPtr, filePtr, argsPtr, dirPtr, windows.SW_SHOWNORMAL); err != nil {
		return nil, err
	}

	return &Process{}, nil
}
