package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/focusflow/internal/model"
)

var (
	ErrCorrupt        = errors.New("storage: corrupt state record")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// Store persists the single TaskState record.
type Store interface {
	Load(ctx context.Context) (model.TaskState, error)
	Save(ctx context.Context, state model.TaskState) error
}

type StorageError struct {
	Op      string
	Backend string
	Path    string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage: %s %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s %s: %v", e.Backend, e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open builds the store selected by backend. The caller closes stores that
// implement io.Closer.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
