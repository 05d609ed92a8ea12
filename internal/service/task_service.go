package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "focusd/backend/internal/errors"
	"focusd/backend/internal/model"
	"focusd/backend/internal/repository"
)

type TaskService struct {
	repo *repository.TaskRepository
	now  func() time.Time
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo, now: time.Now}
}

// CreateTaskInput carries the already-coerced create payload. Invalid
// enum values fall back to defaults rather than erroring.
type CreateTaskInput struct {
	Title    string
	Notes    string
	Status   string
	Priority int
	DueDate  *time.Time
	Tags     []string
}

// UpdateTaskFields is the typed allow-list for partial updates. A nil
// pointer means the field was absent from the request; the Set flags
// distinguish "absent" from "present but null" for the clearable fields.
type UpdateTaskFields struct {
	Title      *string
	Notes      *string
	Status     *string
	Priority   *int
	DueDate    *time.Time
	DueDateSet bool
	Tags       []string
	TagsSet    bool
}

// ListTasksFilter is the raw filter from the query string. Unrecognized
// values are silently ignored during normalization.
type ListTasksFilter struct {
	Status   string
	Priority string
	Tag      string
	Query    string
	Sort     string
	Dir      string
}

func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*model.Task, *apperrors.APIError) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}

	status := input.Status
	if !model.ValidStatus(status) {
		status = model.StatusTodo
	}
	priority := input.Priority
	if !model.ValidPriority(priority) {
		priority = model.DefaultPriority
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now().UTC()
	task := model.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Notes:     input.Notes,
		Status:    status,
		Priority:  priority,
		DueDate:   input.DueDate,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, &task); err != nil {
		return nil, apperrors.Store("failed to create task")
	}
	return &task, nil
}

// UpdateTask applies the allow-listed fields to an existing task. When the
// update moves status onto or off "done", completedAt is set or cleared as
// part of the same write. The read-then-write is not atomic against
// concurrent updates of the same task.
func (s *TaskService) UpdateTask(ctx context.Context, id string, fields UpdateTaskFields) (*model.Task, *apperrors.APIError) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidID("task id")
	}

	task, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("task")
		}
		return nil, apperrors.Store("failed to load task")
	}

	now := s.now().UTC()

	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return nil, apperrors.Validation("title cannot be empty")
		}
		task.Title = title
	}
	if fields.Notes != nil {
		task.Notes = *fields.Notes
	}
	if fields.Status != nil && model.ValidStatus(*fields.Status) {
		next := *fields.Status
		if next == model.StatusDone && task.Status != model.StatusDone {
			completed := now
			task.CompletedAt = &completed
		} else if next != model.StatusDone && task.Status == model.StatusDone {
			task.CompletedAt = nil
		}
		task.Status = next
	}
	if fields.Priority != nil && model.ValidPriority(*fields.Priority) {
		task.Priority = *fields.Priority
	}
	if fields.DueDateSet {
		task.DueDate = fields.DueDate
	}
	if fields.TagsSet {
		tags := fields.Tags
		if tags == nil {
			tags = []string{}
		}
		task.Tags = tags
	}

	task.UpdatedAt = now

	if err := s.repo.Update(ctx, task); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("task")
		}
		return nil, apperrors.Store("failed to update task")
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) *apperrors.APIError {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.InvalidID("task id")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("task")
		}
		return apperrors.Store("failed to delete task")
	}
	return nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter ListTasksFilter) ([]model.Task, *apperrors.APIError) {
	tasks, err := s.repo.List(ctx, normalizeFilter(filter))
	if err != nil {
		return nil, apperrors.Store("failed to list tasks")
	}
	return tasks, nil
}

// normalizeFilter drops invalid status/priority values and falls back to
// the default sort order instead of rejecting the request.
func normalizeFilter(filter ListTasksFilter) repository.TaskFilter {
	normalized := repository.TaskFilter{
		Tag:   filter.Tag,
		Query: filter.Query,
		Sort:  "createdAt",
		Dir:   "desc",
	}

	if model.ValidStatus(filter.Status) {
		normalized.Status = filter.Status
	}
	switch filter.Priority {
	case "1", "2", "3":
		normalized.Priority = int(filter.Priority[0] - '0')
	}
	switch filter.Sort {
	case "createdAt", "priority", "dueDate", "title":
		normalized.Sort = filter.Sort
	}
	if filter.Dir == "asc" {
		normalized.Dir = "asc"
	}

	return normalized
}
