//go:build !windows
// +build !windows

package elevate

import "os"

// IsAdmin reports whether the process runs as root.
func IsAdmin() (bool, error) {
	return os.Geteuid() == 0, nil
}

// Relaunch is not available outside Windows.
func Relaunch(args []string) error {
	return ErrUnsupported
}
