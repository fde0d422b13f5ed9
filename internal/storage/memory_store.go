package storage

import (
	"context"
	"sync"

	"github.com/sandeepkv93/focusflow/internal/model"
)

// MemoryStore holds the encoded record in process. It runs the same codec as
// the durable backends, and SaveErr lets tests simulate write failures.
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
	saves   int
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWithPayload primes the store with raw bytes, as if read from disk.
func NewMemoryStoreWithPayload(raw []byte) *MemoryStore {
	return &MemoryStore{payload: append([]byte(nil), raw...)}
}

func (s *MemoryStore) Load(ctx context.Context) (model.TaskState, error) {
	if err := ctx.Err(); err != nil {
		return model.TaskState{}, &StorageError{Op: "load", Backend: BackendMemory, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := Decode(s.payload)
	if err != nil {
		return model.TaskState{}, &StorageError{Op: "load", Backend: BackendMemory, Err: err}
	}
	return state, nil
}

func (s *MemoryStore) Save(ctx context.Context, state model.TaskState) error {
	if err := ctx.Err(); err != nil {
		return &StorageError{Op: "save", Backend: BackendMemory, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return &StorageError{Op: "save", Backend: BackendMemory, Err: s.SaveErr}
	}
	payload, err := Encode(state)
	if err != nil {
		return &StorageError{Op: "save", Backend: BackendMemory, Err: err}
	}
	s.payload = payload
	s.saves++
	return nil
}

// Payload returns a copy of the last saved bytes.
func (s *MemoryStore) Payload() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.payload...)
}

func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
