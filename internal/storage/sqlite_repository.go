package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/focusflow/internal/model"
)

const (
	sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
	DefaultSlot      = "focusflow"
	DefaultSQLiteDB  = "focusflow.db"
)

// SQLiteStore keeps the record in a named slot and appends every save to a
// revision log in the same transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
	name string
	now  func() time.Time
}

func NewSQLiteStore(db *sql.DB, name string) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultSlot
	}
	return &SQLiteStore{db: db, name: name, now: time.Now}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultSQLiteDB
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Backend: BackendSQLite, Path: path, Err: err}
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "migrate", Backend: BackendSQLite, Path: path, Err: err}
	}
	store, err := NewSQLiteStore(db, DefaultSlot)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store.path = path
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context) (model.TaskState, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state_records WHERE name = ?`, s.name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DefaultTaskState(), nil
		}
		return model.TaskState{}, s.wrap("load", err)
	}
	state, err := Decode([]byte(payload))
	if err != nil {
		return model.TaskState{}, s.wrap("load", err)
	}
	return state, nil
}

func (s *SQLiteStore) Save(ctx context.Context, state model.TaskState) error {
	payload, err := Encode(state)
	if err != nil {
		return s.wrap("save", err)
	}
	now := s.now().UTC().Format(sqliteTimeLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap("save", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO state_records (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		s.name, string(payload), now,
	); err != nil {
		return s.wrap("save", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO state_revisions (id, name, payload, saved_at)
		VALUES (?, ?, ?, ?)`,
		uuid.NewString(), s.name, string(payload), now,
	); err != nil {
		return s.wrap("save", err)
	}
	if err := tx.Commit(); err != nil {
		return s.wrap("save", err)
	}
	return nil
}

// Revisions lists saved revisions of this slot, newest first.
func (s *SQLiteStore) Revisions(ctx context.Context, filter RevisionListFilter) ([]Revision, error) {
	args := []any{s.name}
	query := `SELECT id, name, payload, saved_at FROM state_revisions WHERE name = ? ORDER BY saved_at DESC, rowid DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrap("revisions", err)
	}
	defer rows.Close()

	out := make([]Revision, 0)
	for rows.Next() {
		var rev Revision
		var payload, savedAt string
		if err := rows.Scan(&rev.ID, &rev.Name, &payload, &savedAt); err != nil {
			return nil, s.wrap("revisions", err)
		}
		ts, err := time.Parse(sqliteTimeLayout, savedAt)
		if err != nil {
			return nil, s.wrap("revisions", fmt.Errorf("parse saved_at: %w", err))
		}
		rev.Payload = []byte(payload)
		rev.SavedAt = ts
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("revisions", err)
	}
	return out, nil
}

func (s *SQLiteStore) wrap(op string, err error) error {
	return &StorageError{Op: op, Backend: BackendSQLite, Path: s.path, Err: err}
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}
