// Package process looks up running processes by executable name.
package process
