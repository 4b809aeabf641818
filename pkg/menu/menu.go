// pkg/menu/menu.go - interactive package menu.

package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/windowsadmins/appinstaller/pkg/config"
	"github.com/windowsadmins/appinstaller/pkg/logging"
	"github.com/windowsadmins/appinstaller/pkg/process"
	"github.com/windowsadmins/appinstaller/pkg/selection"
	"github.com/windowsadmins/appinstaller/pkg/status"
)

const (
	title = "Package Installer Menu"
	hint  = "Please select an option (e.g., 1, 1,2,3, 1-3, A, Q)"
)

// Inspector looks up the installed product matching a package name.
type Inspector interface {
	Lookup(name string) (status.Entry, bool)
}

// LineReader supplies menu input.
type LineReader interface {
	ReadLine() (string, error)
	Pause()
}

// Runner installs packages on behalf of the menu.
type Runner interface {
	InstallAll(ctx context.Context, pkgs []config.Package, force bool) []process.Outcome
	InstallSelected(ctx context.Context, pkgs []config.Package, indices []int, force bool) []process.Outcome
}

// Menu is the interactive loop shown when no batch flag is given.
type Menu struct {
	Packages  []config.Package
	Inspector Inspector
	Input     LineReader
	Runner    Runner
	Log       *logging.Logger

	// Clear is called before the menu is drawn. Optional.
	Clear func()
}

// List prints the numbered package list with install state. Shared with --list.
func List(log *logging.Logger, pkgs []config.Package, inspector Inspector) {
	for i, pkg := range pkgs {
		line := fmt.Sprintf(" %d. %s", i+1, pkg.Name)
		if tag := installedTag(log, pkg, inspector); tag != "" {
			line += " " + tag
		}
		log.Printf("%s", line)
	}
}

func installedTag(log *logging.Logger, pkg config.Package, inspector Inspector) string {
	if inspector == nil {
		return ""
	}
	entry, found := inspector.Lookup(pkg.Name)
	if !found {
		return ""
	}
	if pkg.Version != "" && entry.DisplayVersion != "" && status.IsOlderVersion(entry.DisplayVersion, pkg.Version) {
		return log.WarningString("[Update available]")
	}
	if entry.DisplayVersion != "" {
		return log.SuccessString("[Installed " + entry.DisplayVersion + "]")
	}
	return log.SuccessString("[Installed]")
}

// Show draws the full menu.
func (m *Menu) Show() {
	if m.Clear != nil {
		m.Clear()
	}
	m.Log.Header(title)
	List(m.Log, m.Packages, m.Inspector)
	m.Log.Printf(" A. Install All Packages")
	m.Log.Printf(" Q. Quit")
	m.Log.Separator()
	m.Log.Printf("%s", hint)
}

// Run loops until the user quits, input ends, or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.Show()

		choice, err := m.Input.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logging.Debug("Menu input closed")
				return nil
			}
			return fmt.Errorf("reading menu choice: %w", err)
		}
		if choice == "" {
			continue
		}

		if m.handle(ctx, choice) {
			return nil
		}
	}
}

// handle runs one menu choice and reports whether the loop should end.
func (m *Menu) handle(ctx context.Context, choice string) bool {
	logging.Debug("Menu choice", "choice", choice)

	switch strings.ToUpper(choice) {
	case "Q":
		m.Log.Separator()
		m.Log.Highlight(" Installation complete. Restart if necessary.")
		m.Log.Separator()
		return true
	case "A":
		m.Runner.InstallAll(ctx, m.Packages, false)
	default:
		indices, err := selection.Parse(choice, len(m.Packages))
		if err != nil {
			m.Log.Error("Invalid option. Please try again.")
			break
		}
		for _, idx := range indices {
			if idx > len(m.Packages) {
				m.Log.Error(" * Invalid selection. Skipping...")
			}
		}
		m.Runner.InstallSelected(ctx, m.Packages, indices, false)
	}
	m.Input.Pause()
	return false
}
