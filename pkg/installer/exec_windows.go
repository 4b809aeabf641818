//go:build windows
// +build windows

package installer

import (
	"os/exec"
	"syscall"
)

// CREATE_NO_WINDOW from the Win32 API.
const CREATE_NO_WINDOW = 0x08000000

// newCmd passes the argument string verbatim through CmdLine; installers
// parse their own command lines and Go's quoting would mangle them.
func newCmd(c Command) *exec.Cmd {
	cmd := exec.Command(c.Name)
	cmd.Dir = c.Dir
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: CREATE_NO_WINDOW,
		CmdLine:       c.String(),
	}
	return cmd
}
