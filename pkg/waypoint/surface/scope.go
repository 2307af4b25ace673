package surface

import (
	"errors"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/lifecycle"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

const nestedControllerPrefix = "NavController#"

// Scope is what a rendered entry sees: its controller, its storage and its saved UI
// state registry. A nil *Scope is valid and reports ErrNotAttached from every accessor.
type Scope struct {
	controller *router.Controller
	entry      *router.Entry
	storage    *storage.Storage
	registry   *Registry
}

// NewScope binds e's storage through c and returns a scope with a registry restored
// from e's saved UI state.
func NewScope(c *router.Controller, e *router.Entry) *Scope {
	return &Scope{
		controller: c,
		entry:      e,
		storage:    c.EntryStorage(e),
		registry:   NewRegistry(e.SavedState()),
	}
}

func (s *Scope) Controller() *router.Controller { return s.controller }
func (s *Scope) Entry() *router.Entry           { return s.entry }
func (s *Scope) Storage() *storage.Storage      { return s.storage }
func (s *Scope) Registry() *Registry            { return s.registry }

// Nested returns the child controller identified by opts.ScopeID, creating it on first
// use. The child is hosted in this entry's storage, delegates Back to this scope's
// controller and tears down its own entries through a lifecycle dispatcher. A Savable
// child saves its stack into this entry's UI state and is restored from it.
func (s *Scope) Nested(opts router.Options) (*router.Controller, error) {
	if s == nil || s.controller == nil || s.storage == nil {
		return nil, &router.NavigationError{Op: "nested", Err: router.ErrNotAttached}
	}
	if opts.ScopeID == "" {
		return nil, &router.NavigationError{Op: "nested", Err: errors.New("scope id required")}
	}

	key := nestedControllerPrefix + opts.ScopeID
	var (
		saved    any
		restored bool
	)
	if s.registry != nil {
		saved, restored = s.registry.Consume(key)
	}
	if v, ok := s.storage.Lookup(key); ok {
		if c, ok := v.(*router.Controller); ok {
			// A live child is newer than any snapshot.
			s.saveNested(key, c)
			return c, nil
		}
	}

	opts.Parent = s.controller
	opts.Host = s.storage
	c, err := router.New(opts)
	if err != nil {
		return nil, err
	}
	lifecycle.Attach(c)
	if state, ok := saved.(map[string]any); restored && ok && c.Mode() == router.ModeSavable {
		if err := c.RestoreState(state); err != nil {
			internal.GetInternalLogger().Error("surface: nested restore failed", "scope", opts.ScopeID, "error", err)
		}
	}
	s.storage.Put(key, c)
	s.saveNested(key, c)
	return c, nil
}

func (s *Scope) saveNested(key string, c *router.Controller) {
	if s.registry == nil || c.Mode() != router.ModeSavable {
		return
	}
	s.registry.Register(key, func() any { return c.SaveState() })
}
