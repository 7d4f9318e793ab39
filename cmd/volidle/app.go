package main

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/3dm4rk/volidle/pkg/audio"
	"github.com/3dm4rk/volidle/pkg/config"
	"github.com/3dm4rk/volidle/pkg/idle"
	"github.com/3dm4rk/volidle/pkg/instance"
	"github.com/3dm4rk/volidle/pkg/interfaces"
	"github.com/3dm4rk/volidle/pkg/power"
	"github.com/3dm4rk/volidle/pkg/schedule"
	"github.com/3dm4rk/volidle/pkg/status"
	"github.com/3dm4rk/volidle/pkg/ui"
	"github.com/3dm4rk/volidle/pkg/volume"
)

// Options are the command line settings
type Options struct {
	ConfigPath string
	Hidden     bool
	DryRun     bool
}

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Options    Options
	Logger     *logrus.Logger
	Store      *config.Store
	Lock       *instance.Lock
	Status     *status.Log
	IdleClock  interfaces.IdleClock
	Activity   *idle.ActivityClock
	Shutdowner interfaces.Shutdowner
	Endpoint   interfaces.VolumeEndpoint
	AudioErr   error
	Dispatcher interfaces.Dispatcher
	Scheduler  interfaces.Scheduler
}

// newLogger builds the process logger. VOLIDLE_DEBUG=1 forces debug.
func newLogger(level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	if os.Getenv("VOLIDLE_DEBUG") == "1" {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger, nil
}

func component(logger *logrus.Logger, name string) logrus.FieldLogger {
	return logger.WithField(status.ComponentField, name)
}

// NewDependencies creates all dependencies with the given options
func NewDependencies(opts Options, logger *logrus.Logger) (*Dependencies, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath()
	}

	lock, err := instance.Acquire(filepath.Dir(opts.ConfigPath))
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Options:    opts,
		Logger:     logger,
		Lock:       lock,
		Store:      config.Open(opts.ConfigPath, component(logger, "config")),
		Status:     status.NewLog(status.DefaultCapacity),
		Dispatcher: ui.Dispatcher{},
	}
	deps.Scheduler = schedule.NewDispatchScheduler(deps.Dispatcher)

	// Idle messages also go to the status box
	logger.AddHook(status.NewHook(deps.Status, "idle"))

	deps.IdleClock = idle.NewIdleClock()
	if _, err := deps.IdleClock.IdleTime(); errors.Is(err, interfaces.ErrUnsupported) {
		component(logger, "idle").Warn("No OS idle query; measuring activity in this window only")
		deps.Activity = idle.NewActivityClock()
		deps.IdleClock = deps.Activity
	}

	if opts.DryRun {
		deps.Shutdowner = power.NewDryRun(component(logger, "idle"))
	} else {
		deps.Shutdowner = power.NewShutdowner()
	}

	deps.Endpoint, deps.AudioErr = audio.Open(component(logger, "audio"))
	if deps.AudioErr != nil {
		component(logger, "audio").WithError(deps.AudioErr).Warn("Audio control unavailable")
	}

	return deps, nil
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.Endpoint != nil {
		_ = d.Endpoint.Close() // Best effort
	}
	if d.Lock != nil {
		_ = d.Lock.Release()
		d.Lock = nil
	}
}

// Application represents the main application
type Application struct {
	deps    *Dependencies
	shell   *ui.Shell
	monitor *idle.Monitor
	volume  *volume.Controller
}

// NewApplication builds the controllers and the window over deps
func NewApplication(deps *Dependencies, fyneApp fyne.App) *Application {
	a := &Application{deps: deps}

	a.shell = ui.New(fyneApp, component(deps.Logger, "ui"))

	a.monitor = idle.NewMonitor(
		deps.IdleClock,
		deps.Shutdowner,
		deps.Store,
		a.shell.Warning(),
		deps.Dispatcher,
		component(deps.Logger, "idle"),
	)
	a.volume = volume.NewController(
		deps.Endpoint,
		deps.Store,
		deps.Scheduler,
		a.shell,
		component(deps.Logger, "volume"),
		deps.Store.VolumeControlEnabled(),
	)

	bindings := ui.Bindings{
		Store:      deps.Store,
		Idle:       a.monitor,
		Volume:     a.volume,
		Status:     deps.Status,
		Dispatcher: deps.Dispatcher,
	}
	if deps.Activity != nil {
		bindings.OnActivity = deps.Activity.Touch
	}
	a.shell.Bind(bindings)

	if deps.AudioErr != nil && !errors.Is(deps.AudioErr, interfaces.ErrUnsupported) {
		a.shell.ShowError("Error", errors.Wrap(deps.AudioErr, "failed to initialize audio control"))
	}
	return a
}

// Hidden reports whether the window should start hidden
func (a *Application) Hidden() bool {
	return a.deps.Options.Hidden || a.deps.Store.Snapshot().HideOnStartup
}

// Run starts the enabled features and blocks in the UI event loop
func (a *Application) Run() {
	a.shell.Start()
	a.shell.Run(a.Hidden())
}

// Quit stops everything and exits the event loop
func (a *Application) Quit() {
	a.shell.Quit()
}
