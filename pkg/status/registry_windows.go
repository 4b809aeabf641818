//go:build windows
// +build windows

package status

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// RegistryReader reads uninstall entries from the Windows registry using the
// 64-bit view.
type RegistryReader struct{}

// Entries enumerates the immediate subkeys of root and reads their display values.
// Subkeys that cannot be opened are skipped.
func (RegistryReader) Entries(root UninstallRoot) ([]Entry, error) {
	base, err := hiveKey(root.Hive)
	if err != nil {
		return nil, err
	}

	key, err := registry.OpenKey(base, root.Path, registry.READ|registry.WOW64_64KEY)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", root, err)
	}
	defer key.Close()

	subKeys, err := key.ReadSubKeyNames(0)
	if err != nil {
		return nil, fmt.Errorf("reading subkeys of %s: %w", root, err)
	}

	entries := make([]Entry, 0, len(subKeys))
	for _, name := range subKeys {
		entry, ok := readEntry(key, name)
		if !ok {
			continue
		}
		entry.Key = root.String() + `\` + name
		entries = append(entries, entry)
	}
	return entries, nil
}

func readEntry(parent registry.Key, name string) (Entry, bool) {
	sub, err := registry.OpenKey(parent, name, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return Entry{}, false
	}
	defer sub.Close()

	var e Entry
	if displayName, _, err := sub.GetStringValue("DisplayName"); err == nil {
		e.DisplayName = displayName
	}
	if displayVersion, _, err := sub.GetStringValue("DisplayVersion"); err == nil {
		e.DisplayVersion = displayVersion
	}
	return e, e.DisplayName != ""
}

func hiveKey(h Hive) (registry.Key, error) {
	switch h {
	case LocalMachine:
		return registry.LOCAL_MACHINE, nil
	case CurrentUser:
		return registry.CURRENT_USER, nil
	default:
		return 0, fmt.Errorf("unknown registry hive %q", h)
	}
}
