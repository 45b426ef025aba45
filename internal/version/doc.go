// Package version exposes build metadata of the stub itself.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds. They are logged
// at startup and sent as the User-Agent of update requests.
package version
