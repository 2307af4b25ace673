package surface

// Registry holds the saved UI state of one rendered entry. Values restored from the
// entry's previous snapshot are handed out once; live values register a provider that
// is read when the entry is hidden or the stack is saved.
type Registry struct {
	restored  map[string]any
	providers map[string]func() any
	live      map[string]any
}

// NewRegistry creates a registry restored from snapshot, which may be nil.
func NewRegistry(snapshot map[string]any) *Registry {
	restored := make(map[string]any, len(snapshot))
	for k, v := range snapshot {
		restored[k] = v
	}
	return &Registry{
		restored:  restored,
		providers: make(map[string]func() any),
		live:      make(map[string]any),
	}
}

// Consume returns the restored value for key and forgets it.
func (r *Registry) Consume(key string) (any, bool) {
	v, ok := r.restored[key]
	if ok {
		delete(r.restored, key)
	}
	return v, ok
}

// Register adds a provider read at snapshot time. The returned func removes it.
func (r *Registry) Register(key string, provider func() any) func() {
	r.providers[key] = provider
	return func() {
		delete(r.providers, key)
		delete(r.live, key)
	}
}

// Snapshot returns the current state: provider values plus restored values nobody
// consumed. Nil provider values are dropped.
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, len(r.restored)+len(r.providers))
	for k, v := range r.restored {
		out[k] = v
	}
	for k, p := range r.providers {
		if v := p(); v != nil {
			out[k] = v
		}
	}
	return out
}
