package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusd/backend/internal/model"
)

func TestTaskService_CreateTask(t *testing.T) {
	tests := []struct {
		name      string
		input     CreateTaskInput
		wantErr   string
		wantCheck func(t *testing.T, task *model.Task)
	}{
		{
			name:    "rejects empty title",
			input:   CreateTaskInput{Title: ""},
			wantErr: "validation_error",
		},
		{
			name:    "rejects whitespace-only title",
			input:   CreateTaskInput{Title: "   "},
			wantErr: "validation_error",
		},
		{
			name:  "applies defaults",
			input: CreateTaskInput{Title: "write report"},
			wantCheck: func(t *testing.T, task *model.Task) {
				assert.Equal(t, model.StatusTodo, task.Status)
				assert.Equal(t, model.DefaultPriority, task.Priority)
				assert.Equal(t, []string{}, task.Tags)
				assert.Nil(t, task.DueDate)
				assert.Nil(t, task.CompletedAt)
				assert.NotEmpty(t, task.ID)
			},
		},
		{
			name:  "coerces out-of-range priority to default",
			input: CreateTaskInput{Title: "t", Priority: 7},
			wantCheck: func(t *testing.T, task *model.Task) {
				assert.Equal(t, model.DefaultPriority, task.Priority)
			},
		},
		{
			name:  "coerces unknown status to todo",
			input: CreateTaskInput{Title: "t", Status: "archived"},
			wantCheck: func(t *testing.T, task *model.Task) {
				assert.Equal(t, model.StatusTodo, task.Status)
			},
		},
		{
			name:  "keeps explicit fields",
			input: CreateTaskInput{Title: "  deep work  ", Notes: "90m block", Status: model.StatusDoing, Priority: 1, Tags: []string{"focus", "am"}},
			wantCheck: func(t *testing.T, task *model.Task) {
				assert.Equal(t, "deep work", task.Title)
				assert.Equal(t, "90m block", task.Notes)
				assert.Equal(t, model.StatusDoing, task.Status)
				assert.Equal(t, 1, task.Priority)
				assert.Equal(t, []string{"focus", "am"}, task.Tags)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTaskService(t)

			task, apiErr := svc.CreateTask(context.Background(), tt.input)

			if tt.wantErr != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantErr, apiErr.Code)
				assert.Equal(t, http.StatusBadRequest, apiErr.Status)
				assert.Nil(t, task)
				return
			}
			require.Nil(t, apiErr)
			require.NotNil(t, task)
			tt.wantCheck(t, task)
		})
	}
}

func TestTaskService_CreateNeverPersistsInvalid(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	_, apiErr := svc.CreateTask(ctx, CreateTaskInput{Title: "  "})
	require.NotNil(t, apiErr)

	tasks, listErr := svc.ListTasks(ctx, ListTasksFilter{})
	require.Nil(t, listErr)
	assert.Empty(t, tasks)
}

func TestTaskService_StatusTransitionRule(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	task, apiErr := svc.CreateTask(ctx, CreateTaskInput{Title: "ship release"})
	require.Nil(t, apiErr)
	require.Nil(t, task.CompletedAt)

	// Non-done -> done stamps completedAt with the transition time.
	doneAt := base.Add(2 * time.Hour)
	svc.now = func() time.Time { return doneAt }
	done := model.StatusDone
	task, apiErr = svc.UpdateTask(ctx, task.ID, UpdateTaskFields{Status: &done})
	require.Nil(t, apiErr)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(doneAt))

	// A status-free update leaves completedAt untouched.
	notes := "shipped to staging"
	task, apiErr = svc.UpdateTask(ctx, task.ID, UpdateTaskFields{Notes: &notes})
	require.Nil(t, apiErr)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(doneAt))

	// Re-asserting done does not re-stamp.
	svc.now = func() time.Time { return doneAt.Add(time.Hour) }
	task, apiErr = svc.UpdateTask(ctx, task.ID, UpdateTaskFields{Status: &done})
	require.Nil(t, apiErr)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(doneAt))

	// Done -> non-done clears completedAt.
	todo := model.StatusTodo
	task, apiErr = svc.UpdateTask(ctx, task.ID, UpdateTaskFields{Status: &todo})
	require.Nil(t, apiErr)
	assert.Nil(t, task.CompletedAt)
}

func TestTaskService_UpdateAllowList(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, apiErr := svc.CreateTask(ctx, CreateTaskInput{Title: "plan sprint", Tags: []string{"work"}})
	require.Nil(t, apiErr)

	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	title := "plan sprint 12"
	priority := 1
	updated, apiErr := svc.UpdateTask(ctx, task.ID, UpdateTaskFields{
		Title:      &title,
		Priority:   &priority,
		DueDate:    &due,
		DueDateSet: true,
		Tags:       []string{"work", "planning"},
		TagsSet:    true,
	})
	require.Nil(t, apiErr)
	assert.Equal(t, "plan sprint 12", updated.Title)
	assert.Equal(t, 1, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))
	assert.Equal(t, []string{"work", "planning"}, updated.Tags)

	// Present-but-null dueDate clears it; nil tags become empty.
	updated, apiErr = svc.UpdateTask(ctx, task.ID, UpdateTaskFields{
		DueDateSet: true,
		TagsSet:    true,
	})
	require.Nil(t, apiErr)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, []string{}, updated.Tags)

	// Invalid enum values in an update are ignored, not applied.
	bad := "archived"
	badPriority := 9
	updated, apiErr = svc.UpdateTask(ctx, task.ID, UpdateTaskFields{Status: &bad, Priority: &badPriority})
	require.Nil(t, apiErr)
	assert.Equal(t, model.StatusTodo, updated.Status)
	assert.Equal(t, 1, updated.Priority)

	// Empty title is rejected.
	empty := "  "
	_, apiErr = svc.UpdateTask(ctx, task.ID, UpdateTaskFields{Title: &empty})
	require.NotNil(t, apiErr)
	assert.Equal(t, "validation_error", apiErr.Code)
}

func TestTaskService_UpdateErrors(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	_, apiErr := svc.UpdateTask(ctx, "not-a-uuid", UpdateTaskFields{})
	require.NotNil(t, apiErr)
	assert.Equal(t, "invalid_id", apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	_, apiErr = svc.UpdateTask(ctx, "2f0c8f9e-33a1-4e6b-9a41-57f2a9d2b111", UpdateTaskFields{})
	require.NotNil(t, apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestTaskService_Delete(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, apiErr := svc.CreateTask(ctx, CreateTaskInput{Title: "temp"})
	require.Nil(t, apiErr)

	require.Nil(t, svc.DeleteTask(ctx, task.ID))

	tasks, listErr := svc.ListTasks(ctx, ListTasksFilter{})
	require.Nil(t, listErr)
	assert.Empty(t, tasks)

	apiErr = svc.DeleteTask(ctx, task.ID)
	require.NotNil(t, apiErr)
	assert.Equal(t, "not_found", apiErr.Code)

	apiErr = svc.DeleteTask(ctx, "###")
	require.NotNil(t, apiErr)
	assert.Equal(t, "invalid_id", apiErr.Code)
}

func TestTaskService_ListFilters(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	seed := []CreateTaskInput{
		{Title: "Write design doc", Status: model.StatusDoing, Priority: 1, Tags: []string{"writing"}},
		{Title: "review PR", Status: model.StatusTodo, Priority: 2, Tags: []string{"code", "review"}},
		{Title: "water plants", Status: model.StatusTodo, Priority: 3, Tags: []string{"home"}},
	}
	for index, input := range seed {
		createdAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC).Add(time.Duration(index) * time.Hour)
		svc.now = func() time.Time { return createdAt }
		_, apiErr := svc.CreateTask(ctx, input)
		require.Nil(t, apiErr)
	}

	t.Run("status filter", func(t *testing.T) {
		tasks, apiErr := svc.ListTasks(ctx, ListTasksFilter{Status: model.StatusTodo})
		require.Nil(t, apiErr)
		require.Len(t, tasks, 2)
		for _, task := range tasks {
			assert.Equal(t, model.StatusTodo, task.Status)
		}
	})

	t.Run("invalid status ignored", func(t *testing.T) {
		tasks, apiErr := svc.ListTasks(ctx, ListTasksFilter{Status: "archived"})
		require.Nil(t, apiErr)
		assert.Len(t, tasks, 3)
	})

	t.Run("priority filter", func(t *testing.T) {
		tasks, apiErr := svc.ListTasks(ctx, ListTasksFilter{Priority: "1"})
		require.Nil(t, apiErr)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Write design doc", tasks[0].Title)
	})

	t.Run("invalid priority ignored", func(t *testing.T) {
		tasks, apiErr := svc.ListTasks(ctx, ListTasksFilter{Priority: "9"})
		require.Nil(t, apiErr)
		assert.Len(t, tasks, 3)
	})

	t.Run("tag exact match", func(t *testing.T) {
		tasks, apiErr := svc.ListTasks(ctx, ListTasksFilter{Tag: "review"})
		require.Nil(t, apiErr)
		require.Len(t, tasks, 1)
		assert.Equal(t, "review PR", tasks[0].Title)

		tasks, apiErr = svc.ListTasks(ctx, ListTasksFilter{Tag: "rev"})
		require.Nil(t, apiErr)
		assert.Empty(t, tasks)
	})

	t.Run("case-insensitive title search", func(t *testing.T) {
		tasks, apiErr := svc.ListTasks(ctx, ListTasksFilter{Query: "WRITE"})
		require.Nil(t, apiErr)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Write design doc", tasks[0].Title)
	})

	t.Run("default sort newest first", func(t *testing.T) {
		tasks, apiErr := svc.ListTasks(ctx, ListTasksFilter{})
		require.Nil(t, apiErr)
		require.Len(t, tasks, 3)
		assert.Equal(t, "water plants", tasks[0].Title)
		assert.Equal(t, "Write design doc", tasks[2].Title)
	})

	t.Run("sort by priority ascending", func(t *testing.T) {
		tasks, apiErr := svc.ListTasks(ctx, ListTasksFilter{Sort: "priority", Dir: "asc"})
		require.Nil(t, apiErr)
		require.Len(t, tasks, 3)
		assert.Equal(t, 1, tasks[0].Priority)
		assert.Equal(t, 3, tasks[2].Priority)
	})

	t.Run("unknown sort falls back to createdAt", func(t *testing.T) {
		tasks, apiErr := svc.ListTasks(ctx, ListTasksFilter{Sort: "evil; DROP TABLE tasks"})
		require.Nil(t, apiErr)
		require.Len(t, tasks, 3)
		assert.Equal(t, "water plants", tasks[0].Title)
	})
}
