// Package integration holds end-to-end tests of the stub against local HTTP servers.
package integration
