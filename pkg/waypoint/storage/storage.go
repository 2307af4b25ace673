// Package storage provides the hierarchical key/value scopes that back a navigation
// controller and each of its entries.
//
// A Storage owns its values. A value is one of three variants: a Plain terminal value,
// a nested *Storage, or a Model wrapping a Closable. Owned storages and models are torn
// down by the lifecycle package when the owning entry leaves the back stack; Storage
// itself never closes anything.
//
// Storages are not safe for concurrent use. All access is expected to happen on the UI
// goroutine.
package storage

import (
	"sort"
	"sync"
)

// Value is a value held by a Storage. The set of implementations is closed:
// Plain, *Storage and Model.
type Value interface {
	isValue()
}

// Plain is a terminal value with no teardown semantics.
type Plain struct {
	V any
}

func (Plain) isValue() {}

// Closable is a long-lived object bound to a storage lifetime.
type Closable interface {
	Close() error
}

// Model wraps a closable object owned by a storage.
type Model struct {
	Closable Closable
}

func (Model) isValue() {}

// Storage is a scope of values keyed by string.
type Storage struct {
	values map[string]Value
}

func (*Storage) isValue() {}

// New creates an empty Storage.
func New() *Storage {
	return &Storage{values: make(map[string]Value)}
}

// Get returns the value stored under key.
func (s *Storage) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetOrPut returns the value stored under key, creating it with factory when absent.
// The factory runs at most once per missing key.
func (s *Storage) GetOrPut(key string, factory func() Value) Value {
	if v, ok := s.values[key]; ok {
		return v
	}
	v := factory()
	s.values[key] = v
	return v
}

// Remove deletes key and returns the value that was stored.
func (s *Storage) Remove(key string) (Value, bool) {
	v, ok := s.values[key]
	if ok {
		delete(s.values, key)
	}
	return v, ok
}

// Put stores v as a Plain value, replacing anything under key.
func (s *Storage) Put(key string, v any) {
	s.values[key] = Plain{V: v}
}

// Lookup returns the plain value under key. Nested storages and models are not
// reported.
func (s *Storage) Lookup(key string) (any, bool) {
	if p, ok := s.values[key].(Plain); ok {
		return p.V, true
	}
	return nil, false
}

// Child returns the nested storage under key, creating it when absent. A non-storage
// value under key is replaced.
func (s *Storage) Child(key string) *Storage {
	if child, ok := s.values[key].(*Storage); ok {
		return child
	}
	child := New()
	s.values[key] = child
	return child
}

// Model returns the closable under key, creating it with factory when absent.
func (s *Storage) Model(key string, factory func() Closable) Closable {
	if m, ok := s.values[key].(Model); ok {
		return m.Closable
	}
	c := factory()
	s.values[key] = Model{Closable: c}
	return c
}

// Has reports whether key is present.
func (s *Storage) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the keys in sorted order.
func (s *Storage) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of values.
func (s *Storage) Len() int {
	return len(s.values)
}

var (
	rootMu sync.Mutex
	root   *Storage
)

// Root returns the process-wide root storage, creating it on first use.
func Root() *Storage {
	rootMu.Lock()
	defer rootMu.Unlock()
	if root == nil {
		root = New()
	}
	return root
}

// DiscardRoot drops the process-wide root storage, as happens when the process is
// recreated. The next call to Root returns a fresh storage.
func DiscardRoot() {
	rootMu.Lock()
	defer rootMu.Unlock()
	root = nil
}
