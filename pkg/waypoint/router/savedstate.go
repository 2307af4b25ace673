package router

import (
	"errors"
	"fmt"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

// Keys of the map produced by SaveState.
const (
	savedKey         = "key"
	savedMode        = "mode"
	savedEntries     = "entries"
	savedID          = "id"
	savedDestination = "destination"
	savedArgs        = "args"
	savedResult      = "result"
	savedUIState     = "saved_state"
)

// SaveState captures the stack as a map of primitive values. Arguments, results and
// saved UI state must themselves be primitive for the map to survive persistence.
// Absent values are omitted rather than stored as nil.
func (c *Controller) SaveState() map[string]any {
	entries := make([]map[string]any, 0, c.stack.Len())
	for _, e := range c.stack.Entries() {
		m := map[string]any{
			savedID:          e.id,
			savedDestination: string(e.destination),
		}
		if e.args != nil {
			m[savedArgs] = e.args
		}
		if e.result != nil {
			m[savedResult] = e.result
		}
		if len(e.savedState) > 0 {
			m[savedUIState] = e.savedState
		}
		entries = append(entries, m)
	}

	return map[string]any{
		savedKey:     c.key,
		savedMode:    c.mode.String(),
		savedEntries: entries,
	}
}

// RestoreState rebuilds the stack from a map produced by SaveState.
//
// Restored entries keep their ids, so if the controller storage survived (a
// configuration change rather than a new process) their storages and models are
// reattached rather than recreated. Entries on the current stack that are not part of
// the restored stack are closed.
//
// A DataStore-mode controller ignores saved: it readopts the stack held in its storage
// when that storage is still alive and otherwise resets to the start destination.
func (c *Controller) RestoreState(saved map[string]any) error {
	if c.mode == ModeDataStore {
		c.restoreFromStorage()
		return nil
	}

	if key, _ := saved[savedKey].(string); key != "" && c.key != "" && key != c.key {
		return newError("restore", "", fmt.Errorf("saved state belongs to controller %q", key))
	}

	raw, err := entryMaps(saved[savedEntries])
	if err != nil {
		return newError("restore", "", err)
	}
	if len(raw) == 0 {
		c.Reset()
		c.firstTransition = true
		return nil
	}

	restored := NewStack()
	for i, m := range raw {
		e, err := c.entryFromMap(m)
		if err != nil {
			return newError("restore", "", fmt.Errorf("entry %d: %w", i, err))
		}
		if restored.Contains(e.id) {
			return newError("restore", "", fmt.Errorf("entry %d: duplicate id %s", i, e.id))
		}
		restored.Push(e)
	}

	if !c.storageAlive() {
		c.storage = c.resolveHost().Child(storage.DataStoreKey(c.scopeID))
	}

	previous := c.stack.Clear()
	c.stack = restored
	c.direction = DirectionNone
	c.firstTransition = true

	internal.GetInternalLogger().Debug("router: restored", "scope", c.scopeID, "depth", restored.Len())
	for _, e := range previous {
		if !restored.Contains(e.id) {
			c.closeEntry(e)
		}
	}
	return nil
}

func (c *Controller) restoreFromStorage() {
	if c.storageAlive() && c.adoptStoredStack() {
		c.direction = DirectionNone
		return
	}

	internal.GetInternalLogger().Debug("router: storage lost, resetting", "scope", c.scopeID)
	c.storage = c.resolveHost().Child(storage.DataStoreKey(c.scopeID))
	c.Reset()
	c.firstTransition = true
}

func (c *Controller) entryFromMap(m map[string]any) (*Entry, error) {
	id, _ := m[savedID].(string)
	if id == "" {
		return nil, errors.New("missing id")
	}
	name, _ := m[savedDestination].(string)
	dest := Destination(name)
	if !c.isAllowed(dest) {
		return nil, newError("restore", dest, ErrIllegalDestination)
	}

	e := &Entry{
		id:          id,
		destination: dest,
		args:        m[savedArgs],
		result:      m[savedResult],
	}
	if state, ok := m[savedUIState].(map[string]any); ok {
		e.savedState = state
	}
	return e, nil
}

// entryMaps accepts both the in-memory form and the generic form produced by decoders.
func entryMaps(v any) ([]map[string]any, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return list, nil
	case []any:
		out := make([]map[string]any, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: unexpected %T", i, item)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("entries: unexpected %T", v)
	}
}
