package surface

import (
	"context"
	"errors"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

const frameDelayMS = 16

// Run drives the surface until ctx is cancelled or SDL reports a quit. It polls SDL
// events, applies back requests received on back and renders one frame per iteration.
// SDL must be initialised and renderer valid. Run must be called from the goroutine
// that owns the renderer.
func (s *Surface) Run(ctx context.Context, renderer *sdl.Renderer, back <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-back:
			if err := s.controller.Back(); err != nil && !errors.Is(err, router.ErrCannotGoBack) {
				return err
			}
		default:
		}

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if _, ok := event.(*sdl.QuitEvent); ok {
				return nil
			}
			s.HandleEvent(event)
		}

		if err := renderer.SetDrawColor(0, 0, 0, 255); err != nil {
			return err
		}
		if err := renderer.Clear(); err != nil {
			return err
		}
		if err := s.Frame(renderer); err != nil {
			internal.GetInternalLogger().Error("surface: frame failed", "error", err)
			return err
		}
		renderer.Present()
		sdl.Delay(frameDelayMS)
	}
}
