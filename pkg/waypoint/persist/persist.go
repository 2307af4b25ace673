// Package persist stores a controller's saved state in a TOML file.
//
// Writes go to a temporary file that is renamed over the target, and both reads and
// writes hold a cross-process lock on Path+".lock".
package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
)

const (
	lockTimeout   = 3 * time.Second
	retryInterval = 100 * time.Millisecond
)

// ErrLocked is returned when the lock could not be taken before the timeout.
var ErrLocked = errors.New("persist: state file is locked")

// FileStore saves and loads state maps produced by router.Controller.SaveState.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save writes state to the file, replacing any previous content.
func (f *FileStore) Save(ctx context.Context, state map[string]any) error {
	unlock, err := f.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(state); err != nil {
		return fmt.Errorf("persist: encode: %w", err)
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("persist: write temp file: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("persist: rename: %w", err)
	}

	internal.GetInternalLogger().Debug("persist: saved state", "path", f.Path, "bytes", buf.Len())
	return nil
}

// Load reads the file. A missing or empty file yields an empty map. TOML integers
// come back as int so restored args compare equal to what was saved.
func (f *FileStore) Load(ctx context.Context) (map[string]any, error) {
	unlock, err := f.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist: read: %w", err)
	}

	state := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return state, nil
	}
	if _, err := toml.Decode(string(data), &state); err != nil {
		return nil, fmt.Errorf("persist: decode %s: %w", f.Path, err)
	}
	return normalize(state).(map[string]any), nil
}

// Clear removes the state file.
func (f *FileStore) Clear(ctx context.Context) error {
	unlock, err := f.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("persist: remove: %w", err)
	}
	return nil
}

func (f *FileStore) lock(ctx context.Context) (func(), error) {
	if f.Path == "" {
		return nil, errors.New("persist: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return nil, fmt.Errorf("persist: create dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	fl := flock.New(f.Path + ".lock")
	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocked, err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return func() { _ = fl.Unlock() }, nil
}

func normalize(v any) any {
	switch value := v.(type) {
	case int64:
		return int(value)
	case map[string]any:
		for k, inner := range value {
			value[k] = normalize(inner)
		}
		return value
	case []map[string]any:
		for i, inner := range value {
			value[i] = normalize(inner).(map[string]any)
		}
		return value
	case []any:
		for i, inner := range value {
			value[i] = normalize(inner)
		}
		return value
	default:
		return v
	}
}
