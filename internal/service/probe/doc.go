// Package probe reads the version of the installed target program from the
// metadata embedded in its executable.
//
// A missing executable means "not installed" and is not an error; an
// executable without a usable version field yields a version parse error.
package probe
