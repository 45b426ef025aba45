package process

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"
)

// commLength is the length Linux truncates process names to.
const commLength = 15

// Lister returns a snapshot of the process table.
type Lister func() ([]ps.Process, error)

// Finder checks the process table for a given executable.
type Finder struct {
	list Lister
	self int
}

// New returns a Finder backed by the operating system process table.
func New() *Finder {
	return NewWithLister(ps.Processes)
}

// NewWithLister returns a Finder backed by list.
func NewWithLister(list Lister) *Finder {
	return &Finder{
		list: list,
		self: os.Getpid(),
	}
}

// IsRunning reports whether a process other than the current one runs executable.
func (f *Finder) IsRunning(executable string) (bool, error) {
	processList, err := f.list()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == f.self {
			continue
		}

		if matches(process.Executable(), executable) {
			return true, nil
		}
	}

	return false, nil
}

// matches compares a process name with an executable file name.
func matches(processName, executable string) bool {
	if processName == "" {
		return false
	}

	if runtime.GOOS == "windows" {
		return strings.EqualFold(processName, executable)
	}

	if processName == executable {
		return true
	}

	return len(processName) == commLength && strings.HasPrefix(executable, processName)
}
