//go:build !windows

package console

import "os"

// enableVirtualTerminal is a no-op: unix terminals understand ANSI sequences.
func enableVirtualTerminal(*os.File) bool {
	return true
}
