// pkg/process/reporter.go - per-package progress reporting.

package process

import (
	"errors"

	"github.com/windowsadmins/appinstaller/pkg/installer"
	"github.com/windowsadmins/appinstaller/pkg/logging"
)

// Reporter is told when an installer starts and how each package ended.
type Reporter interface {
	Start(o Outcome)
	Done(o Outcome)
}

// NoOpReporter implements Reporter but does nothing (for headless operation).
type NoOpReporter struct{}

func (NoOpReporter) Start(Outcome) {}
func (NoOpReporter) Done(Outcome)  {}

// ConsoleReporter prints progress for an interactive user.
type ConsoleReporter struct {
	Log *logging.Logger
}

// NewConsoleReporter returns a Reporter printing through log.
func NewConsoleReporter(log *logging.Logger) *ConsoleReporter {
	return &ConsoleReporter{Log: log}
}

func (r *ConsoleReporter) Start(o Outcome) {
	r.Log.Printf("")
	r.Log.Highlight(" + Installing %s...", o.Package.Name)
	r.Log.Printf(" + Run %s", o.InstallerPath)
}

func (r *ConsoleReporter) Done(o Outcome) {
	name := o.Package.Name

	var exitErr *installer.ExitError
	var launchErr *installer.LaunchError
	switch {
	case o.Status == StatusInstalled:
		r.Log.Success(" + %s installed successfully!", name)
	case errors.As(o.Err, &exitErr):
		r.Log.Error(" + ERROR: %s installation failed with code %d.", name, exitErr.Code)
	case errors.As(o.Err, &launchErr):
		r.Log.Error(" + ERROR: %s installation failed: %v", name, launchErr.Err)
	case errors.Is(o.Err, ErrInstallerNotFound):
		r.Log.Error(" * ERROR: Installer for %s ('%s') not found. Skipping...", name, o.Package.FileName)
	case errors.Is(o.Err, ErrDeclined):
		r.Log.Error(" * Cancel by user")
		r.Log.Warning(" * Skipping installation of %s.", name)
	case errors.Is(o.Err, ErrTimedOut):
		r.Log.Warning(" * No input received. Skipping.")
		r.Log.Warning(" * Skipping installation of %s.", name)
	case errors.Is(o.Err, ErrBlocked):
		r.Log.Warning(" * %s is in use. Close it and try again. Skipping...", name)
	default:
		r.Log.Error(" + ERROR: %s: %v", name, o.Err)
	}
}
