package config

// Build-time identity of the stub, injected with
// -ldflags "-X github.com/oshokin/launch-stub/internal/config.ManifestURL=https://...".
// Boolean values are strings because -X only sets strings.
//
//nolint:gochecknoglobals // Values must be variables to be overridable via ldflags.
var (
	// ManifestURL is the location of the release manifest.
	ManifestURL = ""
	// ProgramName is the name of the managed program, without extension.
	ProgramName = ""
	// RunElevated requests elevated privileges for the launched program ("true"/"false").
	RunElevated = "false"
	// UseShellExecute starts the program through the OS shell ("true"/"false").
	UseShellExecute = "false"
)
