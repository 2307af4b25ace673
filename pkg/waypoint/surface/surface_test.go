package surface

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/lifecycle"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

const (
	home   router.Destination = "home"
	detail router.Destination = "detail"
	extra  router.Destination = "extra"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recorder struct {
	frames []Frame
	scopes []*Scope
	events int
}

func (r *recorder) Render(scope *Scope, f Frame) {
	r.frames = append(r.frames, f)
	r.scopes = append(r.scopes, scope)
}

func (r *recorder) HandleEvent(scope *Scope, event sdl.Event) bool {
	r.events++
	return true
}

func (r *recorder) last() Frame {
	return r.frames[len(r.frames)-1]
}

type closer struct{ closes int }

func (c *closer) Close() error {
	c.closes++
	return nil
}

type fixture struct {
	c       *router.Controller
	s       *Surface
	clock   *fakeClock
	screens map[router.Destination]*recorder
}

func newFixture(t *testing.T, transition router.Transition) *fixture {
	t.Helper()
	c, err := router.New(router.Options{
		Key:          "main",
		Start:        home,
		Destinations: []router.Destination{home, detail, extra},
		Host:         storage.New(),
	})
	require.NoError(t, err)
	lifecycle.Attach(c)

	clock := &fakeClock{now: time.Unix(0, 0)}
	s := New(c, Options{
		Bounds: sdl.Rect{X: 0, Y: 0, W: 200, H: 100},
		DefaultTransition: func(from, to *router.Entry, d router.Direction) router.Transition {
			return transition
		},
		Clock: clock.Now,
	})

	f := &fixture{c: c, s: s, clock: clock, screens: map[router.Destination]*recorder{}}
	for _, d := range []router.Destination{home, detail, extra} {
		r := &recorder{}
		f.screens[d] = r
		s.Register(d, r)
	}
	return f
}

func (f *fixture) frame(t *testing.T) {
	t.Helper()
	require.NoError(t, f.s.Frame(nil))
}

func TestFirstFrameIsNotAnimated(t *testing.T) {
	f := newFixture(t, router.Fade(100*time.Millisecond))
	f.frame(t)

	phase, ok := f.s.Phase(f.c.Current().ID())
	require.True(t, ok)
	assert.Equal(t, PhaseStable, phase)
	assert.False(t, f.s.InTransition())
	assert.Equal(t, uint8(255), f.screens[home].last().Alpha)
	assert.Equal(t, router.NoTransition, f.s.Transition())
}

func TestFadeTransitionBlocksInput(t *testing.T) {
	f := newFixture(t, router.Fade(100*time.Millisecond))
	f.frame(t)
	homeID := f.c.Current().ID()

	require.NoError(t, f.c.Navigate(detail))
	f.frame(t)

	assert.True(t, f.s.InTransition())
	phase, _ := f.s.Phase(homeID)
	assert.Equal(t, PhaseExiting, phase)
	phase, _ = f.s.Phase(f.c.Current().ID())
	assert.Equal(t, PhaseEntering, phase)

	inside := &sdl.MouseButtonEvent{X: 10, Y: 10}
	outside := &sdl.MouseButtonEvent{X: 500, Y: 500}
	assert.True(t, f.s.HandleEvent(inside))
	assert.False(t, f.s.HandleEvent(outside))
	assert.True(t, f.s.HandleEvent(&sdl.ControllerButtonEvent{}))
	assert.False(t, f.s.HandleEvent(&sdl.QuitEvent{}))
	assert.Equal(t, 0, f.screens[detail].events)

	f.clock.Advance(50 * time.Millisecond)
	f.frame(t)
	assert.InDelta(t, 127, int(f.screens[detail].last().Alpha), 1)
	assert.InDelta(t, 127, int(f.screens[home].last().Alpha), 1)

	f.clock.Advance(50 * time.Millisecond)
	f.frame(t)
	assert.False(t, f.s.InTransition())
	_, ok := f.s.Phase(homeID)
	assert.False(t, ok)
	assert.Equal(t, PhaseStable, f.screens[detail].last().Phase)

	assert.True(t, f.s.HandleEvent(inside))
	assert.Equal(t, 1, f.screens[detail].events)
}

func TestSlideOffsetsFollowDirection(t *testing.T) {
	f := newFixture(t, router.Slide(100*time.Millisecond))
	f.frame(t)

	require.NoError(t, f.c.Navigate(detail))
	f.frame(t)
	f.clock.Advance(25 * time.Millisecond)
	f.frame(t)
	assert.Equal(t, int32(150), f.screens[detail].last().Offset.X)
	assert.Equal(t, int32(-50), f.screens[home].last().Offset.X)

	f.clock.Advance(100 * time.Millisecond)
	f.frame(t)

	require.NoError(t, f.c.Back())
	f.frame(t)
	f.clock.Advance(25 * time.Millisecond)
	f.frame(t)
	assert.Equal(t, int32(-150), f.screens[home].last().Offset.X)
	assert.Equal(t, int32(50), f.screens[detail].last().Offset.X)
}

func TestPerCallTransitionWins(t *testing.T) {
	f := newFixture(t, router.Fade(100*time.Millisecond))
	f.frame(t)

	require.NoError(t, f.c.Navigate(detail, router.WithTransition(router.NoTransition)))
	f.frame(t)

	assert.False(t, f.s.InTransition())
	assert.Equal(t, PhaseStable, f.screens[detail].last().Phase)
}

func TestInterruptedTransitionReleasesOverlay(t *testing.T) {
	f := newFixture(t, router.Fade(100*time.Millisecond))
	f.frame(t)

	require.NoError(t, f.c.Navigate(detail))
	f.frame(t)
	f.clock.Advance(30 * time.Millisecond)
	f.frame(t)
	require.True(t, f.s.InTransition())
	detailID := f.c.Current().ID()

	require.NoError(t, f.c.Navigate(extra))
	f.frame(t)
	assert.True(t, f.s.InTransition())
	phase, ok := f.s.Phase(detailID)
	require.True(t, ok)
	assert.Equal(t, PhaseExiting, phase)

	f.clock.Advance(100 * time.Millisecond)
	f.frame(t)
	assert.False(t, f.s.InTransition())
	assert.True(t, f.s.HandleEvent(&sdl.MouseButtonEvent{X: 1, Y: 1}))
	assert.Equal(t, 1, f.screens[extra].events)

	require.NoError(t, f.c.Navigate(detail, router.WithTransition(router.NoTransition)))
	f.frame(t)
	assert.False(t, f.s.InTransition())
}

func TestBackResultReachesRevealedScreen(t *testing.T) {
	f := newFixture(t, router.NoTransition)
	f.frame(t)

	require.NoError(t, f.c.Navigate(detail, router.WithArgs("x")))
	f.frame(t)
	scope := f.screens[detail].scopes[len(f.screens[detail].scopes)-1]
	args, err := NavArgs[string](scope)
	require.NoError(t, err)
	assert.Equal(t, "x", args)

	vm := &closer{}
	_, err = RememberViewModel(scope, "vm", func() *closer { return vm })
	require.NoError(t, err)

	require.NoError(t, f.c.BackWithResult(42))
	f.frame(t)

	homeScope := f.screens[home].scopes[len(f.screens[home].scopes)-1]
	result, ok := NavResult[int](homeScope)
	require.True(t, ok)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, vm.closes)

	_, err = NavArgs[string](homeScope)
	assert.True(t, router.IsMissingArgs(err))
}

func TestExitingEntryKeepsArgsWhileAnimatingOut(t *testing.T) {
	f := newFixture(t, router.Fade(100*time.Millisecond))
	f.frame(t)
	require.NoError(t, f.c.Navigate(detail, router.WithArgs("x")))
	f.frame(t)
	f.clock.Advance(200 * time.Millisecond)
	f.frame(t)

	enteredScope := f.screens[detail].scopes[len(f.screens[detail].scopes)-1]
	vm := &closer{}
	_, err := RememberViewModel(enteredScope, "vm", func() *closer { return vm })
	require.NoError(t, err)

	require.NoError(t, f.c.Back())
	f.frame(t)
	f.clock.Advance(50 * time.Millisecond)
	f.frame(t)
	require.True(t, f.s.InTransition())
	assert.Equal(t, 1, vm.closes)

	exitingScope := f.screens[detail].scopes[len(f.screens[detail].scopes)-1]
	assert.Equal(t, PhaseExiting, f.screens[detail].last().Phase)

	args, err := NavArgs[string](exitingScope)
	require.NoError(t, err)
	assert.Equal(t, "x", args)

	_, err = RememberViewModel(exitingScope, "vm", func() *closer { return &closer{} })
	assert.True(t, router.IsEntryClosed(err))

	// Anything the exiting screen attaches directly is torn down once it is gone.
	late := &closer{}
	exitingScope.Storage().Model(storage.ModelKey("late"), func() storage.Closable { return late })

	f.clock.Advance(50 * time.Millisecond)
	f.frame(t)
	assert.False(t, f.s.InTransition())
	assert.Equal(t, 1, late.closes)
	assert.Equal(t, 1, vm.closes)
}

func TestSaveableStateSurvivesHiding(t *testing.T) {
	f := newFixture(t, router.NoTransition)
	counter := 0
	f.s.Register(home, ScreenFunc(func(scope *Scope, _ Frame) {
		p, err := RememberSaveable(scope, "count", func() int { return 0 })
		require.NoError(t, err)
		*p++
		counter = *p
	}))

	f.frame(t)
	f.frame(t)
	assert.Equal(t, 2, counter)

	homeEntry := f.c.Current()
	require.NoError(t, f.c.Navigate(detail))
	f.frame(t)
	assert.Equal(t, map[string]any{"count": 2}, homeEntry.SavedState())

	require.NoError(t, f.c.Back())
	f.frame(t)
	assert.Equal(t, 3, counter)

	saved := f.s.SaveState()
	entries := saved["entries"].([]map[string]any)
	assert.Equal(t, map[string]any{"count": 3}, entries[0]["saved_state"])
}

func TestRestoredStackRebindsScopes(t *testing.T) {
	f := newFixture(t, router.Fade(100*time.Millisecond))
	f.frame(t)
	require.NoError(t, f.c.Navigate(detail, router.WithArgs("x")))
	f.frame(t)
	f.clock.Advance(200 * time.Millisecond)
	f.frame(t)
	before := f.s.Scope()
	before.Storage().Put("kept", true)

	require.NoError(t, f.c.RestoreState(f.s.SaveState()))
	f.frame(t)

	after := f.s.Scope()
	assert.NotSame(t, before, after)
	assert.Same(t, before.Storage(), after.Storage())
	assert.False(t, f.s.InTransition())

	require.NoError(t, f.c.Navigate(extra))
	f.frame(t)
	assert.True(t, f.s.InTransition())
}

func TestUnregisteredDestinationFails(t *testing.T) {
	c, err := router.New(router.Options{Start: home, Host: storage.New()})
	require.NoError(t, err)
	s := New(c, Options{})
	assert.Error(t, s.Frame(nil))
}

func TestAfterSyncSeesCurrentStack(t *testing.T) {
	c, err := router.New(router.Options{Start: home, Host: storage.New()})
	require.NoError(t, err)

	var canGoBack []bool
	s := New(c, Options{AfterSync: func(c *router.Controller) {
		canGoBack = append(canGoBack, c.CanGoBack())
	}})
	s.Sync()
	require.NoError(t, c.Navigate(detail))
	s.Sync()

	assert.Equal(t, []bool{false, true}, canGoBack)
}
