package surface

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/lifecycle"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
)

// Phase is the state of a rendered entry.
type Phase int

const (
	PhaseEntering Phase = iota // Animating in
	PhaseStable                // Fully shown, receives input
	PhaseExiting               // Animating out
)

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseStable:
		return "stable"
	case PhaseExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// Frame tells a screen where and how to draw during one render pass.
type Frame struct {
	Renderer *sdl.Renderer // Nil when rendering headless
	Bounds   sdl.Rect      // Region owned by the surface
	Alpha    uint8         // Opacity to apply to everything drawn
	Offset   sdl.Point     // Translation to apply, used by slide transitions
	Phase    Phase
	Progress float64 // Transition progress in [0, 1]; 1 when stable
}

// Screen renders the content of one destination.
type Screen interface {
	Render(scope *Scope, frame Frame)
}

// ScreenFunc adapts a function to Screen.
type ScreenFunc func(scope *Scope, frame Frame)

func (f ScreenFunc) Render(scope *Scope, frame Frame) {
	f(scope, frame)
}

// EventHandler is implemented by screens that take input. Only the stable current
// screen receives events.
type EventHandler interface {
	HandleEvent(scope *Scope, event sdl.Event) bool
}

// TransitionProvider picks the transition between two entries when the navigation
// call did not request one. from is nil for the first entry.
type TransitionProvider func(from, to *router.Entry, direction router.Direction) router.Transition

// Options configures a Surface.
type Options struct {
	Bounds            sdl.Rect // Render region; empty means the whole window
	DefaultTransition TransitionProvider
	Clock             func() time.Time
	AfterSync         func(c *router.Controller) // Called on the UI goroutine after every Sync
}

type rendered struct {
	entry *router.Entry
	scope *Scope
	phase Phase
}

// Surface binds a controller's current entry to a render region.
//
// Frame must be called once per frame from the UI goroutine. It picks up stack changes,
// drives transitions and renders the exiting and current entries. While a transition
// is in flight, HandleEvent consumes interaction input as an invisible overlay would.
type Surface struct {
	controller *router.Controller
	screens    map[router.Destination]Screen
	options    Options

	current *rendered
	exiting *rendered

	transition router.Transition
	direction  router.Direction
	started    time.Time
	blocking   atomic.Bool

	registries map[string]*Registry
}

// New creates a Surface for c.
func New(c *router.Controller, opts Options) *Surface {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Surface{
		controller: c,
		screens:    make(map[router.Destination]Screen),
		options:    opts,
		registries: make(map[string]*Registry),
	}
}

// Register attaches the screen rendering dest.
func (s *Surface) Register(dest router.Destination, screen Screen) *Surface {
	s.screens[dest] = screen
	return s
}

// Controller returns the controller this surface renders.
func (s *Surface) Controller() *router.Controller {
	return s.controller
}

// Sync brings the surface up to date with the controller and the clock without
// rendering.
func (s *Surface) Sync() {
	top := s.controller.Current()
	switch {
	case s.current == nil || s.current.entry.ID() != top.ID():
		s.begin(top)
	case s.current.entry != top:
		// Same id, new object: the stack was restored underneath us.
		s.controller.ConsumeFirstTransition()
		phase := s.current.phase
		s.current = s.bind(top)
		s.current.phase = phase
	}
	s.advance()
	s.prune()
	if s.options.AfterSync != nil {
		s.options.AfterSync(s.controller)
	}
}

// Frame syncs and renders one frame.
func (s *Surface) Frame(renderer *sdl.Renderer) error {
	s.Sync()

	if renderer != nil && !s.options.Bounds.Empty() {
		bounds := s.options.Bounds
		if err := renderer.SetClipRect(&bounds); err != nil {
			return fmt.Errorf("surface: clip: %w", err)
		}
		defer renderer.SetClipRect(nil)
	}

	progress := s.progress()
	if s.exiting != nil {
		if err := s.render(renderer, s.exiting, progress); err != nil {
			return err
		}
	}
	return s.render(renderer, s.current, progress)
}

func (s *Surface) render(renderer *sdl.Renderer, r *rendered, progress float64) error {
	screen, ok := s.screens[r.entry.Destination()]
	if !ok {
		return fmt.Errorf("surface: destination %q not registered", r.entry.Destination())
	}
	screen.Render(r.scope, s.frameFor(renderer, r, progress))
	return nil
}

// HandleEvent routes event to the current screen. It returns true when the event was
// consumed, either by the transition overlay or by the screen.
func (s *Surface) HandleEvent(event sdl.Event) bool {
	if s.blocking.Load() && s.overlayCovers(event) {
		return true
	}
	if s.current == nil || s.current.phase != PhaseStable {
		return false
	}
	handler, ok := s.screens[s.current.entry.Destination()].(EventHandler)
	if !ok {
		return false
	}
	return handler.HandleEvent(s.current.scope, event)
}

// InTransition reports whether a transition is in flight and input is blocked.
func (s *Surface) InTransition() bool {
	return s.blocking.Load()
}

// Phase returns the phase of the rendered entry with the given id.
func (s *Surface) Phase(id string) (Phase, bool) {
	if s.current != nil && s.current.entry.ID() == id {
		return s.current.phase, true
	}
	if s.exiting != nil && s.exiting.entry.ID() == id {
		return s.exiting.phase, true
	}
	return PhaseStable, false
}

// Transition returns the transition currently in effect.
func (s *Surface) Transition() router.Transition {
	return s.transition
}

// Scope returns the scope of the current entry, or nil before the first Sync.
func (s *Surface) Scope() *Scope {
	if s.current == nil {
		return nil
	}
	return s.current.scope
}

// SaveState flushes the saved UI state of rendered entries and returns the
// controller's saved state.
func (s *Surface) SaveState() map[string]any {
	for _, r := range []*rendered{s.current, s.exiting} {
		if r != nil && !r.entry.Closed() {
			r.entry.SetSavedState(r.scope.registry.Snapshot())
		}
	}
	return s.controller.SaveState()
}

func (s *Surface) begin(top *router.Entry) {
	first := s.controller.ConsumeFirstTransition() || s.current == nil
	var from *router.Entry
	if s.current != nil {
		from = s.current.entry
	}
	t := s.selectTransition(from, top, first)

	// An interrupted transition drops its exiting entry immediately.
	if s.exiting != nil {
		s.hide(s.exiting)
		s.exiting = nil
	}

	previous := s.current
	s.current = s.bind(top)
	s.transition = t
	s.direction = s.controller.Direction()
	s.started = s.options.Clock()

	if previous != nil {
		if t.Animated() {
			previous.phase = PhaseExiting
			s.exiting = previous
		} else {
			s.hide(previous)
		}
	}
	if !t.Animated() {
		s.current.phase = PhaseStable
	}
	s.blocking.Store(t.Animated())

	internal.GetInternalLogger().Debug("surface: show", "destination", top.Destination(), "id", top.ID(),
		"transition", t.Kind.String(), "direction", s.direction.String())
}

func (s *Surface) selectTransition(from, to *router.Entry, first bool) router.Transition {
	if t, ok := to.Transition(); ok {
		return t
	}
	if first {
		return router.NoTransition
	}
	if s.options.DefaultTransition != nil {
		return s.options.DefaultTransition(from, to, s.controller.Direction())
	}
	return router.NoTransition
}

func (s *Surface) advance() {
	if s.exiting == nil && s.current.phase == PhaseStable {
		s.blocking.Store(false)
		return
	}
	if s.progress() < 1 {
		return
	}
	if s.exiting != nil {
		s.hide(s.exiting)
		s.exiting = nil
	}
	s.current.phase = PhaseStable
	s.blocking.Store(false)
}

func (s *Surface) progress() float64 {
	if !s.transition.Animated() {
		return 1
	}
	elapsed := s.options.Clock().Sub(s.started)
	p := float64(elapsed) / float64(s.transition.Duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (s *Surface) bind(e *router.Entry) *rendered {
	reg, ok := s.registries[e.ID()]
	if !ok {
		reg = NewRegistry(e.SavedState())
		s.registries[e.ID()] = reg
	}
	return &rendered{
		entry: e,
		scope: &Scope{
			controller: s.controller,
			entry:      e,
			storage:    s.controller.EntryStorage(e),
			registry:   reg,
		},
		phase: PhaseEntering,
	}
}

// hide takes an entry off screen. Entries still on the stack keep their UI state in
// the entry; closed entries get anything created while animating out torn down.
func (s *Surface) hide(r *rendered) {
	delete(s.registries, r.entry.ID())
	if r.entry.Closed() {
		if _, err := lifecycle.Teardown(r.scope.storage); err != nil {
			internal.GetInternalLogger().Error("surface: teardown after exit failed", "entry", r.entry.ID(), "error", err)
		}
		return
	}
	r.entry.SetSavedState(r.scope.registry.Snapshot())
}

// prune forgets registries of entries that left the stack.
func (s *Surface) prune() {
	live := make(map[string]bool, s.controller.Len())
	for _, e := range s.controller.Entries() {
		live[e.ID()] = true
	}
	for id := range s.registries {
		if !live[id] {
			delete(s.registries, id)
		}
	}
}

func (s *Surface) frameFor(renderer *sdl.Renderer, r *rendered, progress float64) Frame {
	f := Frame{
		Renderer: renderer,
		Bounds:   s.options.Bounds,
		Alpha:    255,
		Phase:    r.phase,
		Progress: progress,
	}
	if r.phase == PhaseStable {
		f.Progress = 1
		return f
	}

	// Exiting entries run the animation in reverse.
	p := progress
	if r.phase == PhaseExiting {
		p = 1 - progress
	}

	switch s.transition.Kind {
	case router.TransitionFade:
		f.Alpha = uint8(p * 255)
	case router.TransitionSlide:
		width := float64(s.options.Bounds.W)
		if width == 0 && renderer != nil {
			w, _ := renderer.GetLogicalSize()
			width = float64(w)
		}
		shift := int32((1 - p) * width)
		enteringFromRight := s.direction != router.DirectionBackward
		if r.phase == PhaseExiting {
			enteringFromRight = !enteringFromRight
		}
		if enteringFromRight {
			f.Offset.X = shift
		} else {
			f.Offset.X = -shift
		}
	}
	return f
}
