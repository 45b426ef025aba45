package process

import (
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

// fakeProcess is a static ps.Process.
type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.name }

// listOf returns a Lister serving processes.
func listOf(processes ...ps.Process) Lister {
	return func() ([]ps.Process, error) {
		return processes, nil
	}
}

// TestIsRunning verifies matching by executable name.
func TestIsRunning(t *testing.T) {
	t.Parallel()

	finder := NewWithLister(listOf(
		fakeProcess{pid: 10, name: "app.exe"},
		fakeProcess{pid: 11, name: "averyveryverylo"},
	))

	running, err := finder.IsRunning("app.exe")
	require.NoError(t, err)
	require.True(t, running)

	running, err = finder.IsRunning("other.exe")
	require.NoError(t, err)
	require.False(t, running)

	if runtime.GOOS != "windows" {
		running, err = finder.IsRunning("averyveryverylongname")
		require.NoError(t, err)
		require.True(t, running)
	}
}

// TestIsRunning_IgnoresSelf verifies the current process never counts.
func TestIsRunning_IgnoresSelf(t *testing.T) {
	t.Parallel()

	finder := NewWithLister(listOf(fakeProcess{pid: os.Getpid(), name: "launch-stub"}))

	running, err := finder.IsRunning("launch-stub")
	require.NoError(t, err)
	require.False(t, running)
}

// TestIsRunning_ListError verifies listing failures are reported.
func TestIsRunning_ListError(t *testing.T) {
	t.Parallel()

	errList := errors.New("boom")
	finder := NewWithLister(func() ([]ps.Process, error) {
		return nil, errList
	})

	_, err := finder.IsRunning("app.exe")
	require.ErrorIs(t, err, errList)
}
