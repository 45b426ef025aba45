// Package config defines the deployment identity of the stub: the manifest URL,
// the managed program name and how the program is started.
//
// Defaults are baked into the binary at build time through -ldflags and may be
// overridden by an optional YAML or TOML file placed next to the stub. The
// package also derives the filesystem Layout (install, staging and log paths).
package config
