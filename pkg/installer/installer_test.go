package installer

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windowsadmins/appinstaller/pkg/retry"
)

func TestBuildCommand(t *testing.T) {
	windir := filepath.Join(t.TempDir(), "Windows")
	t.Setenv("WINDIR", windir)
	msiexec := filepath.Join(windir, "system32", "msiexec.exe")

	tests := []struct {
		name      string
		path      string
		arguments string
		want      Command
	}{
		{
			name:      "msi goes through msiexec",
			path:      `C:\Packages\node-v20.msi`,
			arguments: "/qn",
			want:      Command{Name: msiexec, Args: `/i "C:\Packages\node-v20.msi" /qn ALLUSERS=1`, Dir: "work", MSI: true},
		},
		{
			name: "msi without arguments",
			path: `C:\Packages\app.msi`,
			want: Command{Name: msiexec, Args: `/i "C:\Packages\app.msi" ALLUSERS=1`, Dir: "work", MSI: true},
		},
		{
			name:      "msi extension is case insensitive",
			path:      `C:\Packages\APP.MSI`,
			arguments: "/quiet /norestart",
			want:      Command{Name: msiexec, Args: `/i "C:\Packages\APP.MSI" /quiet /norestart ALLUSERS=1`, Dir: "work", MSI: true},
		},
		{
			name:      "exe runs directly with arguments untouched",
			path:      `C:\Packages\7z2408-x64.exe`,
			arguments: `/S /D="C:\Program Files\7-Zip"`,
			want:      Command{Name: `C:\Packages\7z2408-x64.exe`, Args: `/S /D="C:\Program Files\7-Zip"`, Dir: "work"},
		},
		{
			name:      "msi arguments are trimmed",
			path:      `C:\Packages\app.msi`,
			arguments: "  /qn  ",
			want:      Command{Name: msiexec, Args: `/i "C:\Packages\app.msi" /qn ALLUSERS=1`, Dir: "work", MSI: true},
		},
		{
			name:      "exe arguments keep surrounding spaces",
			path:      `C:\Packages\setup.exe`,
			arguments: " /S ",
			want:      Command{Name: `C:\Packages\setup.exe`, Args: " /S ", Dir: "work"},
		},
		{
			name: "msi in the middle of the name is not an msi",
			path: `C:\Packages\setup.msi.exe`,
			want: Command{Name: `C:\Packages\setup.msi.exe`, Dir: "work"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildCommand(tt.path, tt.arguments, "work"))
		})
	}
}

func TestBuildCommand_NoWindir(t *testing.T) {
	t.Setenv("WINDIR", "")
	c := BuildCommand("pkg.msi", "", "")
	assert.Equal(t, "msiexec.exe", c.Name)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, `"C:\x\setup.exe" /S`, Command{Name: `C:\x\setup.exe`, Args: "/S"}.String())
	assert.Equal(t, `"C:\x\setup.exe"`, Command{Name: `C:\x\setup.exe`}.String())
}

// TestHelperProcess is not a real test. It stands in for an installer when
// GO_WANT_HELPER_PROCESS is set.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if name := os.Getenv("HELPER_TOUCH"); name != "" {
		_ = os.WriteFile(name, []byte("ran"), 0644)
	}
	code, _ := strconv.Atoi(os.Getenv("HELPER_EXIT_CODE"))
	os.Exit(code)
}

func helperInstaller(t *testing.T, exitCode int) string {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("HELPER_EXIT_CODE", strconv.Itoa(exitCode))
	return exe
}

func TestLaunch_ExitCodes(t *testing.T) {
	codes := []int{0, 1, 42}
	if runtime.GOOS == "windows" {
		// Exit codes above 255 only survive on Windows.
		codes = append(codes, 1603, 3010)
	}
	for _, code := range codes {
		t.Run(strconv.Itoa(code), func(t *testing.T) {
			exe := helperInstaller(t, code)
			got, err := Launcher{}.Launch(exe, "-test.run=TestHelperProcess", t.TempDir())
			require.NoError(t, err)
			assert.Equal(t, code, got)
		})
	}
}

func TestLaunch_WorkingDirectory(t *testing.T) {
	exe := helperInstaller(t, 0)
	t.Setenv("HELPER_TOUCH", "marker.txt")
	dir := t.TempDir()

	_, err := Launcher{}.Launch(exe, "-test.run=TestHelperProcess", dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "marker.txt"))
}

func TestLaunch_StartFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.exe")

	code, err := Launcher{}.Launch(missing, "/S", t.TempDir())
	require.Error(t, err)

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, missing, launchErr.Path)
	assert.NotNil(t, launchErr.Unwrap())
	assert.Equal(t, -1, code)
}

func TestLaunch_MissingExecutableIsNotRetried(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.exe")
	l := Launcher{Retry: retry.Config{MaxAttempts: 3, InitialInterval: time.Hour}}

	start := time.Now()
	_, err := l.Launch(missing, "", t.TempDir())

	var launchErr *LaunchError
	require.ErrorAs(t, err, &launchErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 1603}
	assert.Equal(t, "installer exited with code 1603", err.Error())
}
