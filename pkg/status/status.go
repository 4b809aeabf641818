// pkg/status/status.go - installed-software detection from the uninstall registry.

package status

import (
	"errors"
	"strings"

	version "github.com/hashicorp/go-version"
	"github.com/windowsadmins/appinstaller/pkg/logging"
)

// Hive names an uninstall registry hive.
type Hive string

const (
	LocalMachine Hive = "HKLM"
	CurrentUser  Hive = "HKCU"
)

const uninstallPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`

// UninstallRoot is one registry key whose immediate subkeys describe installed products.
type UninstallRoot struct {
	Hive Hive
	Path string
}

// String returns the root as HIVE\Path.
func (r UninstallRoot) String() string {
	return string(r.Hive) + `\` + r.Path
}

// DefaultRoots are searched in order. The 64-bit machine root is listed twice.
var DefaultRoots = []UninstallRoot{
	{Hive: LocalMachine, Path: uninstallPath},
	{Hive: LocalMachine, Path: `SOFTWARE\Wow6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
	{Hive: LocalMachine, Path: uninstallPath},
	{Hive: CurrentUser, Path: uninstallPath},
}

// ErrUnsupported is returned by the registry reader on platforms without a registry.
var ErrUnsupported = errors.New("uninstall registry is not available on this platform")

// Entry is one installed product.
type Entry struct {
	Key            string
	DisplayName    string
	DisplayVersion string
}

// EntryReader lists the products registered under an uninstall root.
type EntryReader interface {
	Entries(root UninstallRoot) ([]Entry, error)
}

// Prober answers whether a package is already installed.
type Prober interface {
	IsInstalled(name string) bool
}

// RegistryProber matches package names against uninstall registry DisplayNames.
type RegistryProber struct {
	Roots  []UninstallRoot
	Reader EntryReader
}

// NewRegistryProber returns a prober over DefaultRoots backed by the host registry.
func NewRegistryProber() *RegistryProber {
	return &RegistryProber{
		Roots:  DefaultRoots,
		Reader: RegistryReader{},
	}
}

// Lookup returns the first product whose DisplayName contains name,
// ignoring case. Unreadable roots count as no match.
func (p *RegistryProber) Lookup(name string) (Entry, bool) {
	needle := strings.ToLower(name)
	if needle == "" {
		return Entry{}, false
	}

	for _, root := range p.Roots {
		entries, err := p.Reader.Entries(root)
		if err != nil {
			logging.Debug("Unable to read uninstall root", "root", root.String(), "error", err)
			continue
		}
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.DisplayName), needle) {
				logging.Debug("Found installed product", "package", name, "display_name", e.DisplayName, "key", e.Key)
				return e, true
			}
		}
	}
	return Entry{}, false
}

// IsInstalled reports whether any uninstall root lists a product matching name.
func (p *RegistryProber) IsInstalled(name string) bool {
	_, found := p.Lookup(name)
	return found
}

// IsOlderVersion returns true if local is strictly older than remote.
// Versions that fail to parse are never considered older.
func IsOlderVersion(local, remote string) bool {
	vLocal, errLocal := version.NewVersion(local)
	vRemote, errRemote := version.NewVersion(remote)

	if errLocal != nil || errRemote != nil {
		logging.Debug("Version parse error, skipping comparison",
			"local", local,
			"remote", remote,
			"errLocal", errLocal,
			"errRemote", errRemote,
		)
		return false
	}
	return vLocal.LessThan(vRemote)
}
