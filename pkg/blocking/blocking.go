// pkg/blocking/blocking.go - detects applications that must be closed before an install.

package blocking

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/windowsadmins/appinstaller/pkg/logging"
)

// RunningProcess is the part of a process the matcher needs.
type RunningProcess struct {
	Name string
	Exe  string
}

// Lister returns the processes currently running.
type Lister func() ([]RunningProcess, error)

// Checker reports which of a package's blocking applications are running.
type Checker struct {
	List Lister
}

// NewChecker returns a Checker backed by the host process table.
func NewChecker() *Checker {
	return &Checker{List: SystemProcesses}
}

// SystemProcesses lists running processes with gopsutil. Processes whose
// name cannot be read are left out.
func SystemProcesses() ([]RunningProcess, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	running := make([]RunningProcess, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		exe, _ := p.Exe()
		running = append(running, RunningProcess{Name: name, Exe: exe})
	}
	return running, nil
}

// RunningApps returns the entries of appNames that match a running process.
// A name containing a path separator is compared with the full executable
// path, a name ending in .exe with the process name, and anything else with
// the process name with or without .exe. Matching ignores case.
func (c *Checker) RunningApps(appNames []string) []string {
	if len(appNames) == 0 {
		return nil
	}

	procs, err := c.List()
	if err != nil {
		logging.Error("Failed to get process list", "error", err)
		return nil
	}

	var running []string
	for _, app := range appNames {
		if isRunning(app, procs) {
			running = append(running, app)
		}
	}
	if len(running) > 0 {
		logging.Info("Blocking applications are running", "apps", running)
	}
	return running
}

func isRunning(app string, procs []RunningProcess) bool {
	want := strings.ToLower(strings.TrimSpace(app))
	if want == "" {
		return false
	}
	byPath := strings.ContainsAny(want, `\/`)

	for _, p := range procs {
		switch {
		case byPath:
			if p.Exe != "" && strings.EqualFold(p.Exe, app) {
				return true
			}
		case strings.HasSuffix(want, ".exe"):
			if strings.ToLower(p.Name) == want {
				return true
			}
		default:
			name := strings.ToLower(p.Name)
			if name == want || name == want+".exe" {
				return true
			}
		}
	}
	return false
}
