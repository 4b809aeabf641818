// pkg/version/version.go - build information for appinstaller.

package version

import (
	"fmt"
	"io"
	"os"
)

// These values are private which ensures they can only be set with the build flags.
var (
	version   = "dev"
	branch    = "unknown"
	revision  = "unknown"
	goVersion = "unknown"
	buildDate = "unknown"
	appName   = "appinstaller"
)

// Info is a structure with version build information about the current application.
type Info struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Branch    string `json:"branch" yaml:"branch"`
	Revision  string `json:"revision" yaml:"revision"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	BuildDate string `json:"build_date" yaml:"build_date"`
}

// Version returns a structure with the current version information.
func Version() Info {
	return Info{
		Name:      appName,
		Version:   version,
		Branch:    branch,
		Revision:  revision,
		GoVersion: goVersion,
		BuildDate: buildDate,
	}
}

// String returns "<name> <version>".
func (i Info) String() string {
	return i.Name + " " + i.Version
}

// Print outputs the application name and version string.
func Print() {
	Fprint(os.Stdout)
}

// Fprint writes the application name and version string to w.
func Fprint(w io.Writer) {
	fmt.Fprintln(w, Version())
}

// PrintFull prints the application name and detailed version information.
func PrintFull() {
	FprintFull(os.Stdout)
}

// FprintFull writes the detailed version information to w.
func FprintFull(w io.Writer) {
	v := Version()
	fmt.Fprintln(w, v)
	fmt.Fprintf(w, "  branch: \t%s\n", v.Branch)
	fmt.Fprintf(w, "  revision: \t%s\n", v.Revision)
	fmt.Fprintf(w, "  build date: \t%s\n", v.BuildDate)
	fmt.Fprintf(w, "  go version: \t%s\n", v.GoVersion)
}
