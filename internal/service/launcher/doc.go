// Package launcher starts the installed target program and returns without waiting for it.
//
// Arguments are always carried as a vector. On Windows, elevated and shell
// launches go through ShellExecute; on other systems elevation is delegated to
// pkexec or sudo.
package launcher
