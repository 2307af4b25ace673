// Package lifecycle tears down entry storages when entries leave a back stack.
//
// A Dispatcher registers itself as a controller's close callback. For every closed
// entry it removes the entry storage from the controller storage and walks the removed
// tree breadth first, closing every owned model exactly once. A failing or panicking
// model never stops the walk.
package lifecycle

import (
	"errors"
	"fmt"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

// Stats counts dispatcher activity since it was attached.
type Stats struct {
	Entries       int64 // Entries whose storage was found and torn down
	Models        int64 // Models closed successfully
	ModelFailures int64 // Models whose Close returned an error or panicked
	Storages      int64 // Storages visited, the entry storage included
}

// Dispatcher tears down closed entries of one controller.
type Dispatcher struct {
	controller *router.Controller
	observer   func(*router.Entry, Stats)

	entries  atomic.Int64
	models   atomic.Int64
	failures atomic.Int64
	storages atomic.Int64
}

// Attach creates a Dispatcher and registers it as c's close callback, replacing any
// callback registered before.
func Attach(c *router.Controller) *Dispatcher {
	d := &Dispatcher{controller: c}
	c.OnCloseEntry(d.Close)
	return d
}

// OnClosed registers an observer called after each teardown with the counts for that
// entry alone.
func (d *Dispatcher) OnClosed(fn func(*router.Entry, Stats)) {
	d.observer = fn
}

// Close removes the storage of e from the controller storage and tears it down.
// Closing an entry whose storage is already gone does nothing.
func (d *Dispatcher) Close(e *router.Entry) {
	v, ok := d.controller.Storage().Remove(e.StorageKey())
	if !ok {
		return
	}
	root, ok := v.(*storage.Storage)
	if !ok {
		return
	}

	stats, err := Teardown(root)
	if err != nil {
		internal.GetInternalLogger().Error("lifecycle: model close failed",
			"entry", e.ID(), "destination", e.Destination(), "error", err)
	}

	d.entries.Inc()
	d.models.Add(stats.Models)
	d.failures.Add(stats.ModelFailures)
	d.storages.Add(stats.Storages)
	stats.Entries = 1

	internal.GetInternalLogger().Debug("lifecycle: entry closed",
		"entry", e.ID(), "destination", e.Destination(), "models", stats.Models, "storages", stats.Storages)
	if d.observer != nil {
		d.observer(e, stats)
	}
}

// Stats returns the cumulative counts.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Entries:       d.entries.Load(),
		Models:        d.models.Load(),
		ModelFailures: d.failures.Load(),
		Storages:      d.storages.Load(),
	}
}

// Teardown walks root breadth first and closes every model it owns. Models and nested
// storages are detached as they are visited; plain values such as args and result stay
// readable. Parents are dequeued before their children are discovered. All failures
// are joined into the returned error; the walk always completes.
func Teardown(root *storage.Storage) (Stats, error) {
	var (
		stats Stats
		errs  []error
	)

	queue := []*storage.Storage{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		stats.Storages++

		for _, key := range current.Keys() {
			v, _ := current.Get(key)
			switch value := v.(type) {
			case *storage.Storage:
				current.Remove(key)
				queue = append(queue, value)
			case storage.Model:
				current.Remove(key)
				if err := closeModel(value.Closable); err != nil {
					stats.ModelFailures++
					errs = append(errs, fmt.Errorf("%s: %w", key, err))
					continue
				}
				stats.Models++
			case storage.Plain:
			}
		}
	}

	return stats, errors.Join(errs...)
}

func closeModel(c storage.Closable) (err error) {
	if c == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Close()
}
