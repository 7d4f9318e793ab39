package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/3dm4rk/volidle/pkg/instance"
	"github.com/3dm4rk/volidle/pkg/ui"
)

const appID = "com.github.3dm4rk.volidle"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		opts     Options
		logLevel string
		help     bool
	)

	fs := flag.NewFlagSet("volidle", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&opts.Hidden, "hidden", false, "Start with the window hidden")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Log instead of shutting down")
	fs.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.BoolVar(&help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if help {
		printUsage(fs)
		return 0
	}

	logger, err := newLogger(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	defer func() {
		if r := recover(); r != nil {
			ui.ShowFatal("Fatal Error", fmt.Sprintf("Application failed to start:\n%v", r))
			panic(r) // Re-panic
		}
	}()

	deps, err := NewDependencies(opts, logger)
	if errors.Is(err, instance.ErrAlreadyRunning) {
		logger.Info("volidle is already running")
		return 0
	}
	if err != nil {
		ui.ShowFatal("Fatal Error", fmt.Sprintf("Application failed to start:\n%v", err))
		return 1
	}
	defer deps.Close()

	application := NewApplication(deps, app.NewWithID(appID))

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fyne.Do(application.Quit)
	}()

	logger.WithField("config", deps.Store.Path()).Debug("Starting")
	application.Run()
	return 0
}

func printUsage(fs *flag.FlagSet) {
	fmt.Println("volidle - idle shutdown and volume pinning")
	fmt.Println()
	fmt.Println("Usage: volidle [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  VOLIDLE_CONFIG          Path to config file")
	fmt.Println("  VOLIDLE_IDLE_THRESHOLD  Idle seconds before the warning (5-300)")
	fmt.Println("  VOLIDLE_SHUTDOWN_DELAY  Warning countdown seconds (5-300)")
	fmt.Println("  VOLIDLE_HIDE            Start hidden (true/false)")
	fmt.Println("  VOLIDLE_DEBUG           Set to 1 for debug logging")
}
