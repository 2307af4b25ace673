package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

// StorageMode selects how a controller's stack survives the loss of its process.
type StorageMode int

const (
	// ModeSavable restores the stack from the map produced by SaveState.
	ModeSavable StorageMode = iota
	// ModeDataStore keeps the stack only in memory. A controller whose storage was
	// discarded starts over at its start destination.
	ModeDataStore
)

func (m StorageMode) String() string {
	switch m {
	case ModeSavable:
		return "savable"
	case ModeDataStore:
		return "datastore"
	default:
		return "unknown"
	}
}

// ParseStorageMode parses the names produced by String.
func ParseStorageMode(raw string) (StorageMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "savable":
		return ModeSavable, nil
	case "datastore":
		return ModeDataStore, nil
	default:
		return ModeSavable, fmt.Errorf("unknown storage mode %q", raw)
	}
}

// stackKey is where a DataStore-mode controller keeps its stack.
const stackKey = "BackStack"

// Options configures a Controller.
type Options struct {
	Key          string        // Persistence identity; checked on restore when set
	ScopeID      string        // Id of this controller's storage inside Host; defaults to Key, then "root"
	Start        Destination   // Destination shown after construction and Reset
	StartArgs    any           // Arguments for the start entry
	Destinations []Destination // Allowed destinations; empty allows any
	Mode         StorageMode
	Parent       *Controller      // Absorbs Back when this controller is at its root
	Host         *storage.Storage // Storage that owns this controller's storage; defaults to storage.Root()
	NewID        func() string    // Entry id generator; defaults to random UUIDs
}

// Controller owns a back stack of entries and the storage tree beneath them.
//
// A Controller is not safe for concurrent use; every method must be called from the
// UI goroutine.
type Controller struct {
	key       string
	scopeID   string
	start     Destination
	startArgs any
	allowed   map[Destination]struct{}
	order     []Destination
	mode      StorageMode
	parent    *Controller
	host      *storage.Storage
	newID     func() string

	storage         *storage.Storage
	stack           *Stack
	direction       Direction
	firstTransition bool
	onClose         func(*Entry)
}

// New creates a Controller showing its start destination. In DataStore mode a stack
// left in the same host storage by a previous controller is adopted instead.
func New(opts Options) (*Controller, error) {
	if opts.Start == "" {
		return nil, newError("new", "", errors.New("start destination required"))
	}

	c := &Controller{
		key:             opts.Key,
		scopeID:         opts.ScopeID,
		start:           opts.Start,
		startArgs:       opts.StartArgs,
		mode:            opts.Mode,
		parent:          opts.Parent,
		host:            opts.Host,
		newID:           opts.NewID,
		firstTransition: true,
	}
	if c.scopeID == "" {
		c.scopeID = c.key
	}
	if c.scopeID == "" {
		c.scopeID = "root"
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if len(opts.Destinations) > 0 {
		c.allowed = make(map[Destination]struct{}, len(opts.Destinations))
		for _, d := range opts.Destinations {
			if _, dup := c.allowed[d]; !dup {
				c.order = append(c.order, d)
			}
			c.allowed[d] = struct{}{}
		}
	}
	if !c.isAllowed(c.start) {
		return nil, newError("new", c.start, ErrIllegalDestination)
	}

	c.storage = c.resolveHost().Child(storage.DataStoreKey(c.scopeID))
	if c.mode == ModeDataStore && c.adoptStoredStack() {
		internal.GetInternalLogger().Debug("router: adopted stack", "scope", c.scopeID, "depth", c.stack.Len())
		return c, nil
	}

	c.stack = NewStack()
	c.stack.Push(c.newEntry(c.start, navOptions{args: c.startArgs}))
	c.publishStack()
	return c, nil
}

// NavOption customizes Navigate and Replace.
type NavOption func(*navOptions)

type navOptions struct {
	args       any
	transition *Transition
}

// WithArgs attaches arguments to the pushed entry.
func WithArgs(args any) NavOption {
	return func(o *navOptions) {
		o.args = args
	}
}

// WithTransition overrides the transition used to show the pushed entry.
func WithTransition(t Transition) NavOption {
	return func(o *navOptions) {
		o.transition = &t
	}
}

// Navigate pushes a new entry for dest.
func (c *Controller) Navigate(dest Destination, opts ...NavOption) error {
	if !c.isAllowed(dest) {
		return newError("navigate", dest, ErrIllegalDestination)
	}

	e := c.newEntry(dest, collect(opts))
	c.stack.Push(e)
	c.direction = DirectionForward

	internal.GetInternalLogger().Debug("router: navigate", "destination", dest, "id", e.id, "depth", c.stack.Len())
	return nil
}

// Replace pops the current entry and pushes a new entry for dest in one operation.
// The popped entry is closed.
func (c *Controller) Replace(dest Destination, opts ...NavOption) error {
	if !c.isAllowed(dest) {
		return newError("replace", dest, ErrIllegalDestination)
	}

	popped := c.stack.Pop()
	e := c.newEntry(dest, collect(opts))
	c.stack.Push(e)
	c.direction = DirectionForward

	internal.GetInternalLogger().Debug("router: replace", "destination", dest, "id", e.id)
	if popped != nil {
		c.closeEntry(popped)
	}
	return nil
}

// Back pops the current entry. When this controller is at its root the pop is
// delegated to the parent controller. Any result previously delivered to the revealed
// entry is cleared.
func (c *Controller) Back() error {
	return c.back(nil)
}

// BackWithResult pops the current entry and delivers result to the revealed entry.
func (c *Controller) BackWithResult(result any) error {
	return c.back(result)
}

func (c *Controller) back(result any) error {
	if c.stack.Len() > 1 {
		popped := c.stack.Pop()
		revealed := c.stack.Peek()
		revealed.deliverResult(result)
		c.direction = DirectionBackward

		internal.GetInternalLogger().Debug("router: back", "from", popped.destination, "to", revealed.destination)
		c.closeEntry(popped)
		return nil
	}
	if c.parent != nil {
		return c.parent.back(result)
	}
	return newError("back", "", ErrCannotGoBack)
}

// CanGoBack reports whether Back would pop an entry here or in a parent.
func (c *Controller) CanGoBack() bool {
	if c.stack.Len() > 1 {
		return true
	}
	return c.parent != nil && c.parent.CanGoBack()
}

// Reset closes every entry and shows a fresh start entry.
func (c *Controller) Reset() {
	removed := c.stack.Clear()
	c.stack.Push(c.newEntry(c.start, navOptions{args: c.startArgs}))
	c.direction = DirectionNone
	c.publishStack()

	internal.GetInternalLogger().Debug("router: reset", "scope", c.scopeID, "closed", len(removed))
	for _, e := range removed {
		c.closeEntry(e)
	}
}

// OnCloseEntry registers the single callback invoked when an entry is durably removed
// from the stack. A later call replaces the callback. Without a callback the entry's
// storage is simply dropped.
func (c *Controller) OnCloseEntry(fn func(*Entry)) {
	c.onClose = fn
}

// EntryStorage returns the storage of e, binding it on first use. A newly created
// storage receives the entry's arguments; the first bind of an entry also deposits a
// pending result.
func (c *Controller) EntryStorage(e *Entry) *storage.Storage {
	if e.storage != nil {
		return e.storage
	}

	key := e.StorageKey()
	fresh := !c.storage.Has(key)
	s := c.storage.Child(key)
	if fresh && e.args != nil {
		s.Put(storage.ArgsKey, e.args)
	}
	if e.result != nil {
		s.Put(storage.ResultKey, e.result)
	}
	e.storage = s
	return s
}

// ConsumeFirstTransition reports whether the entry about to be shown is the first one
// since construction or restoration. It returns true only once.
func (c *Controller) ConsumeFirstTransition() bool {
	first := c.firstTransition
	c.firstTransition = false
	return first
}

// Current returns the top entry.
func (c *Controller) Current() *Entry {
	return c.stack.Peek()
}

// Entries returns the stack bottom first.
func (c *Controller) Entries() []*Entry {
	return c.stack.Entries()
}

// Len returns the local stack depth.
func (c *Controller) Len() int {
	return c.stack.Len()
}

// Direction returns the direction of the last stack operation.
func (c *Controller) Direction() Direction {
	return c.direction
}

func (c *Controller) Key() string               { return c.key }
func (c *Controller) ScopeID() string           { return c.scopeID }
func (c *Controller) Mode() StorageMode         { return c.mode }
func (c *Controller) Parent() *Controller       { return c.parent }
func (c *Controller) Start() Destination        { return c.start }
func (c *Controller) Storage() *storage.Storage { return c.storage }

// Destinations returns the allowed destinations in registration order. It is empty
// when every destination is allowed.
func (c *Controller) Destinations() []Destination {
	out := make([]Destination, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Controller) isAllowed(dest Destination) bool {
	if dest == "" {
		return false
	}
	if c.allowed == nil {
		return true
	}
	_, ok := c.allowed[dest]
	return ok
}

func (c *Controller) newEntry(dest Destination, o navOptions) *Entry {
	return &Entry{
		id:          c.newID(),
		destination: dest,
		args:        o.args,
		transition:  o.transition,
	}
}

func (c *Controller) closeEntry(e *Entry) {
	if e.closed {
		return
	}
	e.closed = true

	if c.onClose != nil {
		c.onClose(e)
	} else {
		c.storage.Remove(e.StorageKey())
	}
	e.storage = nil
}

func (c *Controller) resolveHost() *storage.Storage {
	if c.host != nil {
		return c.host
	}
	return storage.Root()
}

// storageAlive reports whether the controller storage is still owned by its host.
func (c *Controller) storageAlive() bool {
	v, ok := c.resolveHost().Get(storage.DataStoreKey(c.scopeID))
	if !ok {
		return false
	}
	s, ok := v.(*storage.Storage)
	return ok && s == c.storage
}

// publishStack records the stack in the controller storage so a DataStore-mode
// controller rebuilt over the same storage can adopt it.
func (c *Controller) publishStack() {
	if c.mode == ModeDataStore {
		c.storage.Put(stackKey, c.stack)
	}
}

func (c *Controller) adoptStoredStack() bool {
	v, ok := c.storage.Lookup(stackKey)
	if !ok {
		return false
	}
	stack, ok := v.(*Stack)
	if !ok || stack.IsEmpty() {
		return false
	}
	c.stack = stack
	c.firstTransition = true
	return true
}

func collect(opts []NavOption) navOptions {
	var o navOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
