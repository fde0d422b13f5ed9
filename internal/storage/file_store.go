package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/focusflow/internal/model"
)

const DefaultStateFile = "focusflow_tasks.json"

// FileStore keeps the record in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	if strings.TrimSpace(path) == "" {
		path = DefaultStateFile
	}
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (model.TaskState, error) {
	if err := ctx.Err(); err != nil {
		return model.TaskState{}, s.wrap("load", err)
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.DefaultTaskState(), nil
		}
		return model.TaskState{}, s.wrap("load", err)
	}
	state, err := Decode(raw)
	if err != nil {
		return model.TaskState{}, s.wrap("load", err)
	}
	return state, nil
}

// Save replaces the file through a temp file in the same directory so readers
// never observe a partial write.
func (s *FileStore) Save(ctx context.Context, state model.TaskState) error {
	if err := ctx.Err(); err != nil {
		return s.wrap("save", err)
	}
	payload, err := Encode(state)
	if err != nil {
		return s.wrap("save", err)
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return s.wrap("save", err)
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return s.wrap("save", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return s.wrap("save", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return s.wrap("save", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return s.wrap("save", err)
	}
	return nil
}

func (s *FileStore) wrap(op string, err error) error {
	return &StorageError{Op: op, Backend: BackendFile, Path: s.path, Err: err}
}
