//go:build windows
// +build windows

package logging

import (
	"os"

	"golang.org/x/sys/windows"
)

// EnableANSIConsole turns on virtual terminal processing so colour escape
// sequences render in cmd.exe and older PowerShell hosts.
func EnableANSIConsole() {
	for _, stream := range []*os.File{os.Stdout, os.Stderr} {
		handle := windows.Handle(stream.Fd())
		var mode uint32
		if err := windows.GetConsoleMode(handle, &mode); err == nil {
			mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
			_ = windows.SetConsoleMode(handle, mode)
		}
	}
}
