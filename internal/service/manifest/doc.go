// Package manifest fetches and parses the remote release manifest.
//
// The manifest is a JSON object naming the latest version and the location of
// its ZIP package. Transport problems, malformed bodies and malformed versions
// are reported with distinct error kinds so the caller can decide whether to
// continue with the existing installation. No retries are performed here.
package manifest
