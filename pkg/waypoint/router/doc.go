// Package router provides the navigation controller: an ordered back stack of
// entries, each with its own lazily created storage.
//
// Destinations are plain names. A controller only records which destination an entry
// shows, the arguments it was pushed with and the result delivered to it by a back
// navigation; rendering is left to the surface package.
//
// # Basic Usage
//
//	const (
//	    Home   router.Destination = "home"
//	    Detail router.Destination = "detail"
//	)
//
//	c, err := router.New(router.Options{
//	    Key:          "main",
//	    Start:        Home,
//	    Destinations: []router.Destination{Home, Detail},
//	})
//
//	_ = c.Navigate(Detail, router.WithArgs(item.ID))
//	_ = c.BackWithResult(true) // Home sees the result on its next render
//
// # Entry Lifetime
//
// An entry is closed exactly once, at the moment it leaves the stack through Back,
// Replace or Reset. The callback registered with OnCloseEntry receives it; the
// lifecycle package provides the callback that tears down the entry storage.
// Entries that are merely hidden underneath another entry keep their storage.
//
// # Saved State
//
// In ModeSavable, SaveState and RestoreState move the stack through a map of
// primitive values. Entry ids are preserved, so entry storages that are still alive
// reattach after a restore. In ModeDataStore the stack lives only in memory: a
// controller rebuilt over the same host storage adopts it, and a controller whose
// storage was discarded starts over at its start destination.
//
// # Nested Controllers
//
// A controller created with a Parent delegates Back to it when its own stack is at
// the root. Its storage is placed in Host under "DataStore#" plus the ScopeID, which
// callers assign explicitly so sibling controllers never collide.
package router
