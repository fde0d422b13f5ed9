package storage

import "time"

// Revision is one historical save kept by the SQLite backend.
type Revision struct {
	ID      string
	Name    string
	Payload []byte
	SavedAt time.Time
}

type RevisionListFilter struct {
	Limit  int
	Offset int
}
