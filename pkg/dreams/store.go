package dreams

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists the whole dream collection at once.
type Store interface {
	// Load returns the stored dreams in append order.
	Load(ctx context.Context) ([]Dream, error)
	// Save overwrites the stored collection with dreams.
	Save(ctx context.Context, dreams []Dream) error
}

// FileStore keeps the journal as a JSON array in a single file. Writes
// overwrite the whole file and are not atomic.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the journal file. A missing, empty or malformed file is an
// empty journal, not an error.
func (s *FileStore) Load(ctx context.Context) ([]Dream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Dream{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read journal file '%s': %w", s.Path, err)
	}

	var dreams []Dream
	if err := json.Unmarshal(data, &dreams); err != nil {
		return []Dream{}, nil
	}
	for i := range dreams {
		if dreams[i].Tags == nil {
			dreams[i].Tags = []string{}
		}
	}
	if dreams == nil {
		dreams = []Dream{}
	}
	return dreams, nil
}

func (s *FileStore) Save(ctx context.Context, dreams []Dream) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dreams == nil {
		dreams = []Dream{}
	}
	data, err := json.MarshalIndent(dreams, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dreams: %w", err)
	}

	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory '%s' for journal file: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal file '%s': %w", s.Path, err)
	}
	return nil
}
