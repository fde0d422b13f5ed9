package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type migration struct {
	version int
	name    string
}

// MigrateUp applies every migration newer than the database's user_version.
func MigrateUp(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	steps, err := listMigrations(".up.sql")
	if err != nil {
		return err
	}
	for _, step := range steps {
		if step.version <= current {
			continue
		}
		if err := execMigration(db, step); err != nil {
			return err
		}
		if err := setSchemaVersion(db, step.version); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	steps, err := listMigrations(".down.sql")
	if err != nil {
		return err
	}
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].version > current {
			continue
		}
		if err := execMigration(db, steps[i]); err != nil {
			return err
		}
		if err := setSchemaVersion(db, steps[i].version-1); err != nil {
			return err
		}
	}
	return nil
}

func listMigrations(suffix string) ([]migration, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	out := make([]migration, 0, len(entries))
	for _, name := range entries {
		prefix, _, ok := strings.Cut(path.Base(name), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: missing version prefix", name)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		out = append(out, migration{version: version, name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func execMigration(db *sql.DB, step migration) error {
	sqlBytes, err := migrationFiles.ReadFile(step.name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", step.name, err)
	}
	if _, err := db.Exec(string(sqlBytes)); err != nil {
		return fmt.Errorf("apply migration %s: %w", step.name, err)
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func setSchemaVersion(db *sql.DB, v int) error {
	if v < 0 {
		v = 0
	}
	// PRAGMA does not accept bind parameters.
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}
