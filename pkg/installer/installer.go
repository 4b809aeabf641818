// pkg/installer/installer.go - launches installer executables and MSI packages.

package installer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/windowsadmins/appinstaller/pkg/logging"
	"github.com/windowsadmins/appinstaller/pkg/retry"
)

// LaunchError means the installer process could not be started at all.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExitError reports an installer that ran and exited with a non-zero code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("installer exited with code %d", e.Code)
}

// Command is the process that will be started for an installer.
type Command struct {
	Name string // executable to run
	Args string // raw argument string, passed through untouched
	Dir  string
	MSI  bool
}

// String renders the command line as it would be typed.
func (c Command) String() string {
	if c.Args == "" {
		return quote(c.Name)
	}
	return quote(c.Name) + " " + c.Args
}

// IsMSI reports whether fileName is a Windows Installer package.
func IsMSI(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".msi")
}

// msiexecPath returns the system msiexec.exe, or the bare name when WINDIR is unset.
func msiexecPath() string {
	if windir := os.Getenv("WINDIR"); windir != "" {
		return filepath.Join(windir, "system32", "msiexec.exe")
	}
	return "msiexec.exe"
}

// BuildCommand decides how an installer is started. MSI packages go through
// msiexec with an all-users install; anything else runs directly with
// arguments exactly as given.
func BuildCommand(installerPath, arguments, workDir string) Command {
	if IsMSI(installerPath) {
		parts := []string{"/i", quote(installerPath)}
		if trimmed := strings.TrimSpace(arguments); trimmed != "" {
			parts = append(parts, trimmed)
		}
		parts = append(parts, "ALLUSERS=1")
		return Command{
			Name: msiexecPath(),
			Args: strings.Join(parts, " "),
			Dir:  workDir,
			MSI:  true,
		}
	}

	return Command{
		Name: installerPath,
		Args: arguments,
		Dir:  workDir,
	}
}

func quote(s string) string {
	return `"` + s + `"`
}

// Launcher starts installers and waits for them to finish.
type Launcher struct {
	// Retry applies to starting the process only. An installer that ran is
	// never started again.
	Retry retry.Config
}

// Launch runs the installer synchronously and returns its exit code. A
// process that cannot be started yields a *LaunchError; the exit code of a
// process that did run is returned with a nil error, whatever its value.
func (l Launcher) Launch(installerPath, arguments, workDir string) (int, error) {
	c := BuildCommand(installerPath, arguments, workDir)
	logging.Info("Launching installer", "command", c.String(), "dir", c.Dir, "msi", c.MSI)

	var (
		cmd            *exec.Cmd
		stdout, stderr bytes.Buffer
	)
	err := retry.Do(l.Retry, "start "+filepath.Base(c.Name), func() error {
		stdout.Reset()
		stderr.Reset()
		cmd = newCmd(c)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Start(); err != nil {
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, exec.ErrNotFound) {
				return retry.Permanent(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		logging.Error("Failed to start installer", "path", c.Name, "error", err)
		return -1, &LaunchError{Path: c.Name, Err: err}
	}

	err = cmd.Wait()
	if stdout.Len() > 0 || stderr.Len() > 0 {
		logging.Debug("Installer output", "path", installerPath, "stdout", stdout.String(), "stderr", stderr.String())
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, &LaunchError{Path: c.Name, Err: err}
	}
	return 0, nil
}
