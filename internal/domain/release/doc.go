// Package release contains the core domain types of the launcher stub.
//
// It defines the Manifest describing the latest published release, the
// version comparison policy used to decide whether an update is needed, and
// the typed error taxonomy shared by every service of the stub.
package release
