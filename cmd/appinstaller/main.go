// cmd/appinstaller/main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/windowsadmins/appinstaller/pkg/blocking"
	"github.com/windowsadmins/appinstaller/pkg/config"
	"github.com/windowsadmins/appinstaller/pkg/confirm"
	"github.com/windowsadmins/appinstaller/pkg/console"
	"github.com/windowsadmins/appinstaller/pkg/elevate"
	"github.com/windowsadmins/appinstaller/pkg/installer"
	"github.com/windowsadmins/appinstaller/pkg/logging"
	"github.com/windowsadmins/appinstaller/pkg/menu"
	"github.com/windowsadmins/appinstaller/pkg/process"
	"github.com/windowsadmins/appinstaller/pkg/retry"
	"github.com/windowsadmins/appinstaller/pkg/status"
	"github.com/windowsadmins/appinstaller/pkg/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var logger *logging.Logger

// Freshly copied installers are often held open briefly by antivirus scanners.
var launchRetry = retry.Config{MaxAttempts: 3, InitialInterval: 2 * time.Second, Multiplier: 2}

func main() {
	os.Exit(run())
}

func run() int {
	logging.EnableANSIConsole()
	patchWindowsArgs()

	// Define command-line flags.
	install := pflag.StringP("install", "i", "", "Install packages without the menu (e.g. 1, 1,3, 2-4, All).")
	yes := pflag.BoolP("yes", "y", false, "Reinstall already installed packages without asking. Requires --install.")
	list := pflag.BoolP("list", "l", false, "List packages and their install state, then exit.")
	initConfig := pflag.Bool("init", false, "Write a default applications.json and Packages directory, then exit.")
	configPath := pflag.StringP("config", "c", "", "Path to the package manifest (default: applications.json in the working directory).")
	showConfig := pflag.Bool("show-config", false, "Display the loaded configuration and exit.")
	noElevate := pflag.Bool("no-elevate", false, "Do not request administrative privileges.")
	versionFlag := pflag.Bool("version", false, "Print the version and exit.")

	// Count the number of -v flags.
	var verbosity int
	pflag.CountVarP(&verbosity, "verbose", "v", "Increase log file verbosity (-v info, -vv debug)")
	pflag.Parse()

	logger = logging.New(os.Stdout)

	if *versionFlag {
		if verbosity > 0 {
			version.PrintFull()
		} else {
			version.Print()
		}
		return exitOK
	}

	if !*noElevate {
		if relaunched, code := ensureAdmin(os.Args[1:]); relaunched {
			return code
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		logger.Error(" * ERROR: Cannot determine working directory. %v", err)
		return exitFailure
	}

	if *initConfig {
		return runInit(config.Resolve(*configPath, cwd))
	}

	if code, bad := checkUsage(logger, *install, *yes); bad {
		return code
	}

	cfg, err := loadConfig(config.Resolve(*configPath, cwd))
	if err != nil {
		return exitFailure
	}

	level := logging.ParseLevel(cfg.LogLevel)
	switch {
	case verbosity == 1:
		level = logging.LevelInfo
	case verbosity >= 2:
		level = logging.LevelDebug
	}
	if err := logging.Init(logging.LoggerConfig{
		BaseDir: cfg.LogPath,
		Level:   level,
		Version: version.Version().Version,
	}); err != nil {
		logger.Warning(" * WARNING: File logging disabled. %v", err)
	}
	defer logging.CloseLogger()
	logging.Info("Session started", "config", cfg.Source, "packages", len(cfg.Packages), "session", logging.SessionID())

	if *showConfig {
		if cfgYaml, err := yaml.Marshal(cfg); err == nil {
			logger.Printf("Current configuration:\n%s", string(cfgYaml))
		}
		return exitOK
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle system signals for graceful shutdown.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalChan
		logger.Warning("Signal received, exiting gracefully: %s", sig.String())
		cancel()
		logging.CloseLogger()
		os.Exit(exitFailure)
	}()

	prober := status.NewRegistryProber()

	if *list {
		menu.List(logger, cfg.Packages, prober)
		return exitOK
	}

	con := console.New(os.Stdout)
	inst := &process.Installer{
		FilesPath:      cfg.FilesPath,
		Prober:         prober,
		Gate:           &confirm.Gate{Keys: con, Out: os.Stdout},
		Launcher:       installer.Launcher{Retry: launchRetry},
		Blocking:       blocking.NewChecker(),
		Reporter:       process.NewConsoleReporter(logger),
		ConfirmTimeout: time.Duration(cfg.ConfirmTimeoutSeconds) * time.Second,
	}

	if *install != "" {
		return runBatch(ctx, logger, inst, cfg.Packages, *install, *yes)
	}

	m := &menu.Menu{
		Packages:  cfg.Packages,
		Inspector: prober,
		Input:     con,
		Runner:    inst,
		Log:       logger,
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		m.Clear = clearScreen
	}
	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(" A critical error occurred. %v", err)
		return exitFailure
	}
	return exitOK
}

// ensureAdmin relaunches elevated when needed. It reports whether this
// process should stop, and with which exit code.
func ensureAdmin(args []string) (bool, int) {
	admin, err := elevate.IsAdmin()
	if err != nil {
		logging.Warn("Admin check failed", "error", err)
	}
	if admin {
		return false, exitOK
	}
	if err := elevate.Relaunch(args); err != nil {
		if errors.Is(err, elevate.ErrUnsupported) {
			logging.Debug("Elevation unavailable, continuing unprivileged")
			return false, exitOK
		}
		logger.Error(" * ERROR: Failed to request administrative privileges.")
		logging.Error("Elevation failed", "error", err)
		return true, exitFailure
	}
	return true, exitOK
}

func runInit(path string) int {
	if err := config.InitConfig(path); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			logger.Warning(" * Configuration file '%s' already exists. Nothing to do.", path)
			return exitOK
		}
		logger.Error(" * ERROR: Failed to create default configuration. %v", err)
		return exitFailure
	}
	logger.Success(" * Created default configuration file.")
	logger.Printf(" * Place installers in %s", filepath.Join(filepath.Dir(path), config.GetDefaultConfig().FilesPath))
	return exitOK
}

func loadConfig(path string) (*config.Configuration, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Error(" * ERROR: Configuration file '%s' not found.", path)
		} else {
			logger.Error(" * ERROR: %v", err)
		}
		return nil, err
	}
	if len(cfg.Packages) == 0 {
		logger.Warning(" * WARNING: No packages loaded from configuration.")
	} else {
		logger.Printf(" * Loaded %d package(s) from configuration.", len(cfg.Packages))
	}
	return cfg, nil
}

func clearScreen() {
	fmt.Fprint(os.Stdout, "\x1b[H\x1b[2J")
}
