//go:build !windows
// +build !windows

package installer

import (
	"os/exec"
	"strings"
)

// newCmd splits the argument string on whitespace. Quoted arguments are not
// supported here; only Windows hosts run real installers.
func newCmd(c Command) *exec.Cmd {
	cmd := exec.Command(c.Name, strings.Fields(c.Args)...)
	cmd.Dir = c.Dir
	return cmd
}
