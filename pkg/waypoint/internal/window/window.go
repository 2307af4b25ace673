// Package window opens the SDL window a surface renders into. It is kept apart from
// the logging package so the headless packages build without cgo.
package window

import (
	"fmt"
	"os"
	"strconv"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/constants"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
)

// Options selects SDL window flags.
type Options struct {
	Borderless bool // Remove window decorations (SDL_WINDOW_BORDERLESS)
	Resizable  bool // Allow window resizing (SDL_WINDOW_RESIZABLE)
	Fullscreen bool // Fullscreen mode (SDL_WINDOW_FULLSCREEN)
	Hidden     bool // Start hidden (omits SDL_WINDOW_SHOWN)
}

func (wo Options) IsZero() bool {
	return wo == Options{}
}

func (wo Options) ToSDLFlags() uint32 {
	var flags uint32
	if !wo.Hidden {
		flags |= sdl.WINDOW_SHOWN
	}
	if wo.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}
	if wo.Borderless {
		flags |= sdl.WINDOW_BORDERLESS
	}
	if wo.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}
	return flags
}

// Window owns an SDL window and its renderer.
type Window struct {
	Window   *sdl.Window
	Renderer *sdl.Renderer
}

// Size returns the size to open the window at: the current display mode, or in
// dev mode WINDOW_WIDTH x WINDOW_HEIGHT with a 1024x768 fallback.
func Size() (int32, int32) {
	if constants.IsDevMode() {
		return envSize(constants.WindowWidthEnvVar, 1024), envSize(constants.WindowHeightEnvVar, 768)
	}
	mode, err := sdl.GetCurrentDisplayMode(0)
	if err != nil {
		internal.GetInternalLogger().Error("Failed to get display mode", "error", err)
		return 1024, 768
	}
	return mode.W, mode.H
}

func envSize(name string, fallback int32) int32 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil || n <= 0 {
		internal.GetInternalLogger().Warn("Invalid window size; using default", "var", name, "value", v)
		return fallback
	}
	return int32(n)
}

// Open initialises SDL video and input and opens a window with a renderer.
func Open(title string, opts Options) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_GAMECONTROLLER | sdl.INIT_JOYSTICK); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	if opts.IsZero() {
		opts = Options{Resizable: true}
	}

	width, height := Size()
	x, y := int32(0), int32(0)
	if constants.IsDevMode() {
		x, y = 50, 50
	}

	internal.GetInternalLogger().Debug("Initializing SDL Window", "width", width, "height", height)
	window, err := sdl.CreateWindow(title, x, y, width, height, opts.ToSDLFlags())
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		_ = window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	if err := renderer.SetLogicalSize(width, height); err != nil {
		internal.GetInternalLogger().Warn("Failed to set logical size", "error", err)
	}

	return &Window{Window: window, Renderer: renderer}, nil
}

// Bounds returns the window area in renderer coordinates.
func (w *Window) Bounds() sdl.Rect {
	width, height := w.Renderer.GetLogicalSize()
	return sdl.Rect{W: width, H: height}
}

// Close destroys the renderer and window and shuts SDL down.
func (w *Window) Close() {
	_ = w.Renderer.Destroy()
	_ = w.Window.Destroy()
	sdl.Quit()
}
