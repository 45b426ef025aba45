// Package stub sequences one run of the launcher stub:
// probe the installed version, check the manifest, install when the remote
// release is newer and start the target program.
//
// Manifest failures degrade to launching the existing installation when one
// is present. Every other failure is returned as a classified release error.
package stub
