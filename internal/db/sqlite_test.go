package db

import (
	"path/filepath"
	"testing"
)

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer database.Close()

	if err := database.Ping(); err != nil {
		t.Fatalf("ping sqlite: %v", err)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Bootstrap(database); err != nil {
			t.Fatalf("bootstrap run %d: %v", i+1, err)
		}
	}

	for _, table := range []string{"tasks", "focus_sessions"} {
		var count int
		if err := database.QueryRow(
			`SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`,
			table,
		).Scan(&count); err != nil {
			t.Fatalf("check table %s: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}
