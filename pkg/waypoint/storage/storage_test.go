package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct{ closed int }

func (m *fakeModel) Close() error {
	m.closed++
	return nil
}

func TestGetOrPutRunsFactoryOnce(t *testing.T) {
	s := New()
	calls := 0
	factory := func() Value {
		calls++
		return Plain{V: calls}
	}

	first := s.GetOrPut("k", factory)
	second := s.GetOrPut("k", factory)

	assert.Equal(t, 1, calls)
	assert.Equal(t, Plain{V: 1}, first)
	assert.Equal(t, first, second)
}

func TestRemove(t *testing.T) {
	s := New()
	s.Put("a", "x")

	v, ok := s.Remove("a")
	require.True(t, ok)
	assert.Equal(t, Plain{V: "x"}, v)

	_, ok = s.Remove("a")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestLookupIgnoresNonPlainValues(t *testing.T) {
	s := New()
	s.Child("nested")
	s.Model("m", func() Closable { return &fakeModel{} })
	s.Put("p", 7)

	_, ok := s.Lookup("nested")
	assert.False(t, ok)
	_, ok = s.Lookup("m")
	assert.False(t, ok)

	v, ok := s.Lookup("p")
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestChildIsStable(t *testing.T) {
	s := New()
	a := s.Child("c")
	a.Put("x", 1)

	b := s.Child("c")
	assert.Same(t, a, b)

	v, ok := b.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestModelMemoized(t *testing.T) {
	s := New()
	created := 0
	factory := func() Closable {
		created++
		return &fakeModel{}
	}

	m1 := s.Model(ModelKey("vm"), factory)
	m2 := s.Model(ModelKey("vm"), factory)

	assert.Equal(t, 1, created)
	assert.Same(t, m1, m2)
	assert.True(t, s.Has("Model#vm"))
}

func TestKeysSorted(t *testing.T) {
	s := New()
	s.Put("b", 1)
	s.Put("a", 2)
	s.Child("c")

	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
}

func TestKeyNamespace(t *testing.T) {
	assert.Equal(t, "EntryStorage#abc", EntryKey("abc"))
	assert.Equal(t, "DataStore#tabs", DataStoreKey("tabs"))
	assert.Equal(t, "Model#counter", ModelKey("counter"))
	assert.Equal(t, "args", ArgsKey)
	assert.Equal(t, "result", ResultKey)
}

func TestDiscardRoot(t *testing.T) {
	r := Root()
	r.Put("alive", true)
	assert.Same(t, r, Root())

	DiscardRoot()
	fresh := Root()
	assert.NotSame(t, r, fresh)
	assert.False(t, fresh.Has("alive"))
}
