package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/focusflow/internal/model"
)

func setupStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "focusflow-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	store, err := NewSQLiteStore(db, "test-slot")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, db
}

func TestSQLiteLoadEmptyReturnsDefault(t *testing.T) {
	store, _ := setupStore(t)
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Completed) != 0 || len(got.Suggested) != 0 || got.LastCompleted != nil || got.Streak != 0 || got.LowCount != 0 {
		t.Fatalf("expected default state, got %+v", got)
	}
}

func TestSQLiteSaveLoadAndRevisions(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	last := "2026-02-09"
	state := model.DefaultTaskState()
	state.Suggested = append(state.Suggested, model.SuggestionRecord{Energy: model.EnergyHigh, Task: "Sprint!", Tip: "stretch"})
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("first save: %v", err)
	}
	state.Completed = append(state.Completed, "Sprint!")
	state.LastCompleted = &last
	state.Streak = 1
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Streak != 1 || got.LastCompleted == nil || *got.LastCompleted != last || len(got.Suggested) != 1 {
		t.Fatalf("unexpected loaded state: %+v", got)
	}

	revs, err := store.Revisions(ctx, RevisionListFilter{})
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(revs))
	}
	if revs[0].ID == "" || revs[0].ID == revs[1].ID {
		t.Fatalf("expected distinct revision ids: %+v", revs)
	}
	if !revs[0].SavedAt.After(revs[1].SavedAt) {
		t.Fatalf("expected newest revision first: %v then %v", revs[0].SavedAt, revs[1].SavedAt)
	}
	want, _ := Encode(state)
	if !bytes.Equal(revs[0].Payload, want) {
		t.Fatalf("latest revision payload mismatch:\n%s", revs[0].Payload)
	}

	limited, err := store.Revisions(ctx, RevisionListFilter{Limit: 1})
	if err != nil {
		t.Fatalf("limited revisions: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != revs[0].ID {
		t.Fatalf("unexpected limited revisions: %+v", limited)
	}
}

func TestSQLiteRevisionsOrderAcrossFractionalSeconds(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	times := []time.Time{
		time.Date(2026, 2, 9, 12, 0, 5, 0, time.UTC),
		time.Date(2026, 2, 9, 12, 0, 5, 500_000_000, time.UTC),
	}
	i := 0
	store.now = func() time.Time {
		ts := times[i]
		i++
		return ts
	}

	state := model.DefaultTaskState()
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("first save: %v", err)
	}
	state.Streak = 1
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("second save: %v", err)
	}

	revs, err := store.Revisions(ctx, RevisionListFilter{Limit: 1})
	if err != nil {
		t.Fatalf("revisions: %v", err)
	}
	if len(revs) != 1 || !revs[0].SavedAt.Equal(times[1]) {
		t.Fatalf("expected the 12:00:05.5 revision first, got %+v", revs)
	}
}

func TestSQLiteCorruptPayload(t *testing.T) {
	store, db := setupStore(t)
	if _, err := db.Exec(`INSERT INTO state_records (name, payload, updated_at) VALUES (?, ?, ?)`, "test-slot", "{not json", "2026-02-09T12:00:00Z"); err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}
	_, err := store.Load(context.Background())
	var se *StorageError
	if !errors.As(err, &se) || se.Op != "load" || !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected corrupt load StorageError, got: %v", err)
	}
}

func TestOpenSQLiteMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	if err := store.Save(t.Context(), model.DefaultTaskState()); err != nil {
		t.Fatalf("save: %v", err)
	}
}
