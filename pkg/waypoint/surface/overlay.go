package surface

import (
	"github.com/veandco/go-sdl2/sdl"
)

// overlayCovers reports whether the transition overlay swallows event. Pointer events
// are swallowed inside the surface bounds, touch and button input everywhere. Window
// and quit events always pass.
func (s *Surface) overlayCovers(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.MouseButtonEvent:
		return s.covers(e.X, e.Y)
	case *sdl.MouseMotionEvent:
		return s.covers(e.X, e.Y)
	case *sdl.MouseWheelEvent, *sdl.TouchFingerEvent, *sdl.MultiGestureEvent:
		return true
	case *sdl.KeyboardEvent, *sdl.ControllerButtonEvent, *sdl.ControllerAxisEvent,
		*sdl.JoyButtonEvent, *sdl.JoyAxisEvent, *sdl.JoyHatEvent:
		return true
	default:
		return false
	}
}

func (s *Surface) covers(x, y int32) bool {
	bounds := s.options.Bounds
	if bounds.Empty() {
		return true
	}
	p := sdl.Point{X: x, Y: y}
	return p.InRect(&bounds)
}
