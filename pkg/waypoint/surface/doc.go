// Package surface renders a navigation controller's current entry with SDL2.
//
// A Surface owns one render region. Every frame it compares the controller's current
// entry with what it last showed; on a change it starts a transition, renders the
// outgoing entry as exiting and the new one as entering, and blocks interaction input
// until the transition completes. Each rendered entry receives a Scope carrying its
// controller, its storage and its saved UI state registry. Scopes are passed down the
// render call chain explicitly; nothing is kept in package globals.
//
// # Screens
//
//	s := surface.New(c, surface.Options{
//	    Bounds: sdl.Rect{W: 1024, H: 768},
//	    DefaultTransition: func(from, to *router.Entry, d router.Direction) router.Transition {
//	        return router.Slide(200 * time.Millisecond)
//	    },
//	})
//
//	s.Register(Home, surface.ScreenFunc(func(scope *surface.Scope, f surface.Frame) {
//	    vm, _ := surface.RememberViewModel(scope, "home", newHomeModel)
//	    if result, ok := surface.NavResult[string](scope); ok {
//	        vm.Apply(result)
//	    }
//	    vm.Draw(f)
//	}))
//
// # Transition Precedence
//
// A transition passed to Navigate or Replace wins. Otherwise the first entry shown
// after construction or restoration appears without animation, and every later change
// uses Options.DefaultTransition.
package surface
