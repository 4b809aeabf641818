// Package elevate checks for and requests administrative privileges.
package elevate

import "errors"

// ErrUnsupported is returned by Relaunch where no elevation prompt exists.
var ErrUnsupported = errors.New("elevation is not supported on this platform")
