package router

// Stack is the ordered back stack of a controller. The top of the stack is the
// current entry.
type Stack struct {
	entries []*Entry
}

// NewStack creates a new empty stack.
func NewStack() *Stack {
	return &Stack{
		entries: make([]*Entry, 0),
	}
}

// Push adds an entry on top of the stack.
func (s *Stack) Push(e *Entry) {
	s.entries = append(s.entries, e)
}

// Pop removes and returns the top entry.
// Returns nil if the stack is empty.
func (s *Stack) Pop() *Entry {
	if len(s.entries) == 0 {
		return nil
	}
	e := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
	return e
}

// Peek returns the top entry without removing it.
// Returns nil if the stack is empty.
func (s *Stack) Peek() *Entry {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Contains reports whether an entry with the given id is on the stack.
func (s *Stack) Contains(id string) bool {
	for _, e := range s.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

// Entries returns the entries bottom first. The slice is a copy.
func (s *Stack) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear removes all entries and returns them top first.
func (s *Stack) Clear() []*Entry {
	removed := make([]*Entry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		removed = append(removed, s.entries[i])
	}
	s.entries = s.entries[:0]
	return removed
}
