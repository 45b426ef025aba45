// Package installer downloads a release package and installs it.
//
// The package is written into a staging directory through go-update (which
// verifies the optional SHA-512 checksum), extracted into a fresh sibling of
// the install directory and swapped into place with renames, so the live
// installation is never partially overwritten. The staging directory and any
// partial extraction are removed on every exit path.
package installer
