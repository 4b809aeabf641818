// pkg/process/process.go - runs the per-package install decision for a selection.

package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/windowsadmins/appinstaller/pkg/config"
	"github.com/windowsadmins/appinstaller/pkg/confirm"
	"github.com/windowsadmins/appinstaller/pkg/installer"
	"github.com/windowsadmins/appinstaller/pkg/logging"
	"github.com/windowsadmins/appinstaller/pkg/status"
)

// Status is the terminal state of one package.
type Status int

const (
	StatusInstalled Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusInstalled:
		return "installed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Reasons a package is skipped.
var (
	ErrInstallerNotFound = errors.New("installer not found")
	ErrDeclined          = errors.New("reinstall declined")
	ErrTimedOut          = errors.New("no reinstall confirmation received")
	ErrBlocked           = errors.New("blocking applications are running")
)

// Outcome is the result recorded for one package.
type Outcome struct {
	Package       config.Package
	Index         int // 1-based position in the package list
	InstallerPath string
	Status        Status
	ExitCode      int
	Err           error
}

// Confirmer asks whether an installed package should be installed again.
type Confirmer interface {
	Confirm(ctx context.Context, name string, timeout time.Duration) confirm.Decision
}

// Launcher starts an installer and returns its exit code.
type Launcher interface {
	Launch(installerPath, arguments, workDir string) (int, error)
}

// BlockingChecker returns which of the given applications are running.
type BlockingChecker interface {
	RunningApps(appNames []string) []string
}

// Installer runs packages one at a time. Every package is attempted; a
// failure never stops the rest of the batch.
type Installer struct {
	FilesPath      string
	Prober         status.Prober
	Gate           Confirmer
	Launcher       Launcher
	Blocking       BlockingChecker // optional
	Reporter       Reporter        // optional
	ConfirmTimeout time.Duration
}

// InstallAll processes every package in list order.
func (i *Installer) InstallAll(ctx context.Context, pkgs []config.Package, force bool) []Outcome {
	outcomes := make([]Outcome, 0, len(pkgs))
	for idx, pkg := range pkgs {
		outcomes = append(outcomes, i.installOne(ctx, idx+1, pkg, force))
	}
	return outcomes
}

// InstallSelected processes the packages at the given 1-based indices in
// order. Indices outside the list are dropped; repeated indices run again.
func (i *Installer) InstallSelected(ctx context.Context, pkgs []config.Package, indices []int, force bool) []Outcome {
	outcomes := make([]Outcome, 0, len(indices))
	for _, idx := range indices {
		if idx < 1 || idx > len(pkgs) {
			logging.Debug("Ignoring selection outside package list", "index", idx, "count", len(pkgs))
			continue
		}
		outcomes = append(outcomes, i.installOne(ctx, idx, pkgs[idx-1], force))
	}
	return outcomes
}

func (i *Installer) installOne(ctx context.Context, idx int, pkg config.Package, force bool) Outcome {
	reporter := i.reporter()
	out := Outcome{
		Package:       pkg,
		Index:         idx,
		InstallerPath: filepath.Join(i.FilesPath, pkg.FileName),
	}

	finish := func(s Status, err error) Outcome {
		out.Status = s
		out.Err = err
		logOutcome(out)
		reporter.Done(out)
		return out
	}

	if !fileExists(out.InstallerPath) {
		return finish(StatusSkipped, ErrInstallerNotFound)
	}

	if i.Blocking != nil && len(pkg.BlockingApps) > 0 {
		if running := i.Blocking.RunningApps(pkg.BlockingApps); len(running) > 0 {
			logging.Warn("Skipping install while applications are running", "package", pkg.Name, "running", strings.Join(running, ", "))
			return finish(StatusSkipped, ErrBlocked)
		}
	}

	if !force && i.Prober.IsInstalled(pkg.Name) {
		switch d := i.Gate.Confirm(ctx, pkg.Name, i.confirmTimeout()); d {
		case confirm.Yes:
			logging.Info("Reinstall confirmed", "package", pkg.Name)
		case confirm.TimedOut:
			return finish(StatusSkipped, ErrTimedOut)
		default:
			return finish(StatusSkipped, ErrDeclined)
		}
	}

	reporter.Start(out)
	logging.LogInstall(pkg.Name, "started", "Installing "+pkg.Name, "path", out.InstallerPath)

	code, err := i.Launcher.Launch(out.InstallerPath, pkg.Arguments, i.FilesPath)
	out.ExitCode = code
	switch {
	case err != nil:
		return finish(StatusFailed, err)
	case code != 0:
		return finish(StatusFailed, &installer.ExitError{Code: code})
	default:
		return finish(StatusInstalled, nil)
	}
}

func (i *Installer) confirmTimeout() time.Duration {
	if i.ConfirmTimeout <= 0 {
		return 10 * time.Second
	}
	return i.ConfirmTimeout
}

func (i *Installer) reporter() Reporter {
	if i.Reporter == nil {
		return NoOpReporter{}
	}
	return i.Reporter
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func logOutcome(o Outcome) {
	kv := []interface{}{"index", o.Index, "path", o.InstallerPath}
	msg := o.Status.String()
	if o.Err != nil {
		kv = append(kv, "error", o.Err)
		msg = o.Err.Error()
	}
	if o.Status != StatusSkipped {
		kv = append(kv, "exit_code", o.ExitCode)
	}
	logging.LogInstall(o.Package.Name, o.Status.String(), msg, kv...)
}

// Summary counts outcomes by status.
type Summary struct {
	Installed int
	Failed    int
	Skipped   int
}

// Summarize tallies a batch of outcomes.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case StatusInstalled:
			s.Installed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}
