//go:build !windows
// +build !windows

package logging

// EnableANSIConsole is a no-op; other terminals already interpret ANSI.
func EnableANSIConsole() {}
