package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/codec25/Studio-flow/internal/model"
)

// FileStore keeps the state document in a single JSON file. It is the
// default backend when no database is configured, so the service runs
// fully offline.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads and normalizes the stored document. A missing, empty or
// unreadable file yields a fresh empty state rather than an error.
func (f *FileStore) Load(ctx context.Context) (*model.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.EmptyState(), nil
		}
		return nil, fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat state file: %w", err)
	}
	if info.Size() == 0 {
		return model.EmptyState(), nil
	}

	var st model.State
	if err := json.NewDecoder(file).Decode(&st); err != nil {
		// Corrupt documents start over from empty state.
		return model.EmptyState(), nil
	}
	st.Normalize()
	return &st, nil
}

// Save writes the document to a temp file and renames it into place.
// The rename is atomic, so a crash mid-save leaves either the previous
// document or the new one, never a torn file.
func (f *FileStore) Save(ctx context.Context, st *model.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open temp state file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode state: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
