// cmd/appinstaller/batch.go - non-interactive install (-i / -y).

package main

import (
	"context"

	"github.com/windowsadmins/appinstaller/pkg/config"
	"github.com/windowsadmins/appinstaller/pkg/logging"
	"github.com/windowsadmins/appinstaller/pkg/menu"
	"github.com/windowsadmins/appinstaller/pkg/process"
	"github.com/windowsadmins/appinstaller/pkg/selection"
)

// checkUsage validates the batch flags before any configuration is read.
// It reports the exit code and true when the flags cannot be used.
func checkUsage(log *logging.Logger, install string, yes bool) (int, bool) {
	if yes && install == "" {
		log.Error("Error: -y cannot be used without -i")
		return exitUsage, true
	}
	if install != "" && !selection.IsAll(install) && !selection.Valid(install) {
		log.Printf("Invalid input '%s'. Please try again.", install)
		return exitUsage, true
	}
	return exitOK, false
}

// runBatch installs the packages named by selector and returns the process
// exit code: exitFailure when any package failed.
func runBatch(ctx context.Context, log *logging.Logger, runner menu.Runner, pkgs []config.Package, selector string, force bool) int {
	var outcomes []process.Outcome
	if selection.IsAll(selector) {
		outcomes = runner.InstallAll(ctx, pkgs, force)
	} else {
		indices, err := selection.Parse(selector, len(pkgs))
		if err != nil {
			log.Printf("Invalid input '%s'. Please try again.", selector)
			return exitUsage
		}
		outcomes = runner.InstallSelected(ctx, pkgs, indices, force)
	}

	summary := process.Summarize(outcomes)
	logging.Info("Batch finished", "installed", summary.Installed, "failed", summary.Failed, "skipped", summary.Skipped)
	log.Separator()
	log.Highlight(" Installation complete. Restart if necessary.")
	log.Printf(" Installed: %d  Failed: %d  Skipped: %d", summary.Installed, summary.Failed, summary.Skipped)
	log.Separator()

	if summary.Failed > 0 {
		return exitFailure
	}
	return exitOK
}
