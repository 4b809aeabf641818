//go:build !windows
// +build !windows

package config

import "errors"

var errNoPolicy = errors.New("no policy configured")

// applyPolicyOverrides is a no-op off Windows; there is no policy store.
func applyPolicyOverrides(*Configuration) error {
	return errNoPolicy
}
