// Package console prints user-facing status lines and renders fatal errors.
//
// Colours are only emitted when stdout is a terminal. Diagnostics belong to
// the logger package, not here.
package console
