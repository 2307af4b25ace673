package router

import (
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

// Destination is the stable name of a unit of navigable content. The controller never
// looks past the name; content is attached by the presentation layer.
type Destination string

// Entry is one frame of the back stack.
//
// The id is generated once per push and survives state restoration, so the entry's
// storage key is identical before and after a restore.
type Entry struct {
	id          string
	destination Destination
	args        any
	result      any
	transition  *Transition
	savedState  map[string]any

	storage *storage.Storage
	closed  bool
}

// ID returns the entry's unique id.
func (e *Entry) ID() string {
	return e.id
}

// Destination returns the destination this entry shows.
func (e *Entry) Destination() Destination {
	return e.destination
}

// Args returns the arguments the entry was pushed with.
func (e *Entry) Args() (any, bool) {
	return e.args, e.args != nil
}

// Result returns the result delivered to this entry by the last back navigation.
func (e *Entry) Result() (any, bool) {
	return e.result, e.result != nil
}

// Transition returns the transition requested when the entry was pushed.
func (e *Entry) Transition() (Transition, bool) {
	if e.transition == nil {
		return NoTransition, false
	}
	return *e.transition, true
}

// StorageKey returns the key of this entry's storage inside its controller storage.
func (e *Entry) StorageKey() string {
	return storage.EntryKey(e.id)
}

// SavedState returns the opaque UI state captured the last time the entry was hidden.
func (e *Entry) SavedState() map[string]any {
	return e.savedState
}

// SetSavedState replaces the captured UI state.
func (e *Entry) SetSavedState(state map[string]any) {
	if len(state) == 0 {
		e.savedState = nil
		return
	}
	e.savedState = state
}

// Closed reports whether the entry has been durably removed from its stack.
func (e *Entry) Closed() bool {
	return e.closed
}

// deliverResult records the result and mirrors it into a bound storage. A nil result
// clears any previous one.
func (e *Entry) deliverResult(result any) {
	e.result = result
	if e.storage == nil {
		return
	}
	if result == nil {
		e.storage.Remove(storage.ResultKey)
		return
	}
	e.storage.Put(storage.ResultKey, result)
}
