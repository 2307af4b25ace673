package surface

import (
	"fmt"
	"reflect"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/router"
	"github.com/BrandonKowalski/waypoint/pkg/waypoint/storage"
)

func notAttached(op string) error {
	return &router.NavigationError{Op: op, Err: router.ErrNotAttached}
}

func attached(s *Scope) bool {
	return s != nil && s.controller != nil && s.storage != nil
}

// NavController returns the controller rendering s.
func NavController(s *Scope) (*router.Controller, error) {
	if !attached(s) {
		return nil, notAttached("nav controller")
	}
	return s.controller, nil
}

// NavArgs returns the arguments of the entry rendered through s.
func NavArgs[T any](s *Scope) (T, error) {
	var zero T
	if !attached(s) {
		return zero, notAttached("nav args")
	}

	v, ok := s.storage.Lookup(storage.ArgsKey)
	if !ok || v == nil {
		return zero, &router.NavigationError{Op: "nav args", Destination: s.entry.Destination(), Err: router.ErrMissingArgs}
	}
	args, ok := v.(T)
	if !ok {
		return zero, &router.NavigationError{
			Op:          "nav args",
			Destination: s.entry.Destination(),
			Err:         fmt.Errorf("%w: have %T, want %s", router.ErrMissingArgs, v, typeName[T]()),
		}
	}
	return args, nil
}

// NavArgsOrNull is NavArgs for callers that expect arguments to be absent sometimes.
func NavArgsOrNull[T any](s *Scope) (T, bool) {
	args, err := NavArgs[T](s)
	return args, err == nil
}

// NavResult returns the result delivered to the entry by the last back navigation.
func NavResult[T any](s *Scope) (T, bool) {
	var zero T
	if !attached(s) {
		return zero, false
	}
	v, ok := s.storage.Lookup(storage.ResultKey)
	if !ok {
		return zero, false
	}
	result, ok := v.(T)
	return result, ok
}

// RememberViewModel returns the model stored in the entry storage under
// "Model#"+key, creating it with provider on first use. An empty key uses the model's
// type name. Models implementing storage.Closable are closed when the entry leaves the
// stack; after that no model is created again and ErrEntryClosed is returned.
func RememberViewModel[T any](s *Scope, key string, provider func() T) (T, error) {
	var zero T
	if !attached(s) {
		return zero, notAttached("remember view model")
	}
	if key == "" {
		key = typeName[T]()
	}
	if s.entry != nil && s.entry.Closed() && !s.storage.Has(storage.ModelKey(key)) {
		return zero, &router.NavigationError{Op: "remember view model", Destination: s.entry.Destination(), Err: router.ErrEntryClosed}
	}

	v := s.storage.GetOrPut(storage.ModelKey(key), func() storage.Value {
		model := provider()
		if c, ok := any(model).(storage.Closable); ok {
			return storage.Model{Closable: c}
		}
		return storage.Plain{V: model}
	})

	var held any
	switch value := v.(type) {
	case storage.Model:
		held = value.Closable
	case storage.Plain:
		held = value.V
	case *storage.Storage:
		held = value
	}
	model, ok := held.(T)
	if !ok {
		return zero, fmt.Errorf("surface: model %q holds %T, want %s", key, held, typeName[T]())
	}
	return model, nil
}

// RememberSaveable returns a pointer to a value that survives the entry being hidden
// and the stack being saved. The value is restored from the entry's saved UI state when
// present, otherwise initialised with init.
func RememberSaveable[T any](s *Scope, key string, init func() T) (*T, error) {
	if s == nil || s.registry == nil {
		return nil, notAttached("remember saveable")
	}
	if p, ok := s.registry.live[key].(*T); ok {
		return p, nil
	}

	v := init()
	if restored, ok := s.registry.Consume(key); ok {
		if typed, ok := restored.(T); ok {
			v = typed
		}
	}
	p := &v
	s.registry.live[key] = p
	s.registry.Register(key, func() any { return *p })
	return p, nil
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
