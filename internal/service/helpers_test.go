package service

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"focusd/backend/internal/db"
	"focusd/backend/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	require.NoError(t, db.Bootstrap(database))
	return database
}

func newTaskService(t *testing.T) (*TaskService, *repository.TaskRepository) {
	t.Helper()
	repo := repository.NewTaskRepository(newTestDB(t))
	return NewTaskService(repo), repo
}

func newFocusService(t *testing.T) *FocusService {
	t.Helper()
	return NewFocusService(repository.NewFocusSessionRepository(newTestDB(t)))
}
