package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the ShownSet in a local JSON file. Saves go through a
// temp file and rename so a crash never leaves a truncated set behind.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(_ context.Context) (*ShownSet, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewShownSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read shown set: %w", err)
	}
	set := NewShownSet()
	if err := json.Unmarshal(data, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (f *FileStore) Save(_ context.Context, s *ShownSet) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode shown set: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".shown-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write shown set: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync shown set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close shown set: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace shown set: %w", err)
	}
	return nil
}
