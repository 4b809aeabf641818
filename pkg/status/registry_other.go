//go:build !windows
// +build !windows

package status

// RegistryReader has no registry to read off Windows.
type RegistryReader struct{}

// Entries always fails with ErrUnsupported.
func (RegistryReader) Entries(UninstallRoot) ([]Entry, error) {
	return nil, ErrUnsupported
}
