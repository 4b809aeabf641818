//go:build windows
// +build windows

package elevate

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// IsAdmin reports whether the current process token is a member of the
// local Administrators group.
func IsAdmin() (bool, error) {
	var adminSid *windows.SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&adminSid)
	if err != nil {
		return false, err
	}
	defer windows.FreeSid(adminSid)
	token := windows.Token(0)
	return token.IsMember(adminSid)
}

// Relaunch starts the current executable again with the "runas" verb so
// Windows shows the UAC prompt. The new process keeps the current working
// directory. The caller should exit once Relaunch returns nil.
func Relaunch(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("reading working directory: %w", err)
	}

	verbPtr, _ := windows.UTF16PtrFromString("runas")
	exePtr, _ := windows.UTF16PtrFromString(exe)
	cwdPtr, _ := windows.UTF16PtrFromString(cwd)
	argPtr, _ := windows.UTF16PtrFromString(windows.ComposeCommandLine(args))

	if err := windows.ShellExecute(0, verbPtr, exePtr, argPtr, cwdPtr, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("requesting administrative privileges: %w", err)
	}
	return nil
}
