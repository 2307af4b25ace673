// Package waypoint wires a navigation controller, its lifecycle dispatcher and an SDL2
// presentation surface from a configuration file.
//
// Most programs only need Init, Register their screens on App.Surface and call
// App.Run from the goroutine that owns the SDL renderer. The subpackages can be used
// on their own when finer control is needed.
package waypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/holoplot/go-evdev"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/backevent"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/config"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/i18n"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal/window"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/lifecycle"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/persist"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/surface"
)

// Options configures Init.
type Options struct {
	ConfigPath   string               // TOML config; empty reads WAYPOINT_CONFIG
	Config       *config.Config       // Used instead of reading a file when set
	Key          string               // Controller key, also used as its storage scope
	Start        router.Destination   // Start destination
	StartArgs    any                  // Arguments of the start entry
	Destinations []router.Destination // Allowed destinations; empty allows any
	Bounds       sdl.Rect             // Surface region; empty means the whole window
	LogPath      string               // Full path for the log file; overrides the config
	NoBackDevice bool                 // Skip opening the evdev back device
}

// App is an initialised navigation stack.
type App struct {
	Config     config.Config
	Controller *router.Controller
	Dispatcher *lifecycle.Dispatcher
	Surface    *surface.Surface
	Localizer  *i18n.Localizer
	Store      *persist.FileStore
	Back       *backevent.Listener
}

// Init applies logging settings, restores saved state and builds the App.
func Init(ctx context.Context, options Options) (*App, error) {
	cfg, err := loadConfig(options)
	if err != nil {
		return nil, err
	}

	logPath := cfg.LogPath
	if options.LogPath != "" {
		logPath = options.LogPath
	}
	if logPath != "" {
		internal.SetLogPath(logPath)
	}
	internal.SetRawLogLevel(cfg.LogLevel)
	if constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}

	localizer, err := i18n.New(cfg.Language)
	if err != nil {
		return nil, err
	}

	c, err := router.New(router.Options{
		Key:          options.Key,
		Start:        options.Start,
		StartArgs:    options.StartArgs,
		Destinations: options.Destinations,
		Mode:         cfg.Mode(),
	})
	if err != nil {
		return nil, err
	}
	dispatcher := lifecycle.Attach(c)

	app := &App{
		Config:     cfg,
		Controller: c,
		Dispatcher: dispatcher,
		Localizer:  localizer,
	}

	if c.Mode() == router.ModeSavable && cfg.State.Path != "" {
		app.Store = persist.NewFileStore(cfg.State.Path)
		saved, err := app.Store.Load(ctx)
		if err != nil {
			return nil, err
		}
		if len(saved) > 0 {
			if err := c.RestoreState(saved); err != nil {
				// A stale or foreign file must not keep the app from starting.
				internal.GetInternalLogger().Error("waypoint: discarding saved state", "path", cfg.State.Path, "error", err)
			}
		}
	}

	if !options.NoBackDevice && cfg.Back.Device != "" {
		listener, err := backevent.Open(cfg.Back.Device, evdev.EvCode(cfg.Back.KeyCode))
		if err != nil {
			internal.GetInternalLogger().Error("waypoint: back device unavailable", "device", cfg.Back.Device, "error", err)
		} else {
			app.Back = listener
		}
	}

	transition := cfg.DefaultTransition()
	app.Surface = surface.New(c, surface.Options{
		Bounds: options.Bounds,
		DefaultTransition: func(from, to *router.Entry, direction router.Direction) router.Transition {
			return transition
		},
		AfterSync: app.syncBackGate,
	})

	internal.GetLogger().Info("waypoint: initialised",
		"key", c.Key(), "mode", c.Mode().String(), "depth", c.Len(), "language", localizer.Language().String())
	return app, nil
}

func loadConfig(options Options) (config.Config, error) {
	if options.Config != nil {
		cfg := *options.Config
		return cfg, cfg.Validate()
	}
	if options.ConfigPath != "" {
		return config.Load(options.ConfigPath)
	}
	return config.FromEnv()
}

func (a *App) syncBackGate(c *router.Controller) {
	if a.Back != nil {
		a.Back.SetEnabled(c.CanGoBack())
	}
}

// Run renders until ctx is cancelled or the window is closed, then saves state.
func (a *App) Run(ctx context.Context, renderer *sdl.Renderer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var back <-chan struct{}
	if a.Back != nil {
		back = a.Back.Events()
		go func() {
			if err := a.Back.Run(ctx); err != nil {
				internal.GetInternalLogger().Error("waypoint: back listener stopped", "error", err)
			}
		}()
	}

	runErr := a.Surface.Run(ctx, renderer, back)
	return errors.Join(runErr, a.Save(context.WithoutCancel(ctx)))
}

// WindowOptions selects SDL window flags for RunWindow.
type WindowOptions = window.Options

// RunWindow opens an SDL window, renders into it until ctx is cancelled or the window
// is closed, then saves state and closes the window. When the surface was created
// without bounds, overlay hit testing covers the whole window.
func (a *App) RunWindow(ctx context.Context, title string, opts WindowOptions) error {
	w, err := window.Open(title, opts)
	if err != nil {
		return fmt.Errorf("waypoint: %w", err)
	}
	defer w.Close()

	internal.GetInternalLogger().Debug("waypoint: window open", "title", title, "bounds", w.Bounds())
	return a.Run(ctx, w.Renderer)
}

// Save writes the controller state to the configured file. It does nothing in
// DataStore mode.
func (a *App) Save(ctx context.Context) error {
	if a.Store == nil {
		return nil
	}
	if err := a.Store.Save(ctx, a.Surface.SaveState()); err != nil {
		return fmt.Errorf("waypoint: save state: %w", err)
	}
	return nil
}

// Close tears down every entry and discards the process storage root.
func (a *App) Close() {
	a.Controller.Reset()
	if _, err := lifecycle.Teardown(storage.Root()); err != nil {
		internal.GetInternalLogger().Error("waypoint: teardown failed", "error", err)
	}
	storage.DiscardRoot()
	internal.CloseLogger()
}

// Title returns the localized title of the current entry.
func (a *App) Title() string {
	return a.Localizer.Title(a.Controller.Current().Destination())
}

// SetLogPath sets the full path for the log file, including filename.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
