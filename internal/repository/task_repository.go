package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"focusd/backend/internal/model"
)

const taskColumns = `id, title, notes, status, priority, due_date, tags, completed_at, created_at, updated_at`

// TaskFilter holds a normalized task query. Callers are expected to have
// validated Status/Priority/Sort/Dir already; zero values mean "no filter".
type TaskFilter struct {
	Status   string
	Priority int
	Tag      string
	Query    string
	Sort     string
	Dir      string
}

var taskSortColumns = map[string]string{
	"createdAt": "created_at",
	"priority":  "priority",
	"dueDate":   "due_date",
	"title":     "title",
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Insert(ctx context.Context, task *model.Task) error {
	tags, err := encodeTags(task.Tags)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(
		ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Title,
		task.Notes,
		task.Status,
		task.Priority,
		formatTimePtr(task.DueDate),
		tags,
		formatTimePtr(task.CompletedAt),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`,
		id,
	)
	return scanTask(row)
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	tags, err := encodeTags(task.Tags)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(
		ctx,
		`UPDATE tasks
		 SET title = ?,
		     notes = ?,
		     status = ?,
		     priority = ?,
		     due_date = ?,
		     tags = ?,
		     completed_at = ?,
		     updated_at = ?
		 WHERE id = ?`,
		task.Title,
		task.Notes,
		task.Status,
		task.Priority,
		formatTimePtr(task.DueDate),
		tags,
		formatTimePtr(task.CompletedAt),
		formatTime(task.UpdatedAt),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List runs a filtered, sorted query. The secondary sort key is always id
// descending so that ties order deterministically.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != 0 {
		conditions = append(conditions, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.Tag != "" {
		conditions = append(conditions, "EXISTS (SELECT 1 FROM json_each(tasks.tags) WHERE json_each.value = ?)")
		args = append(args, filter.Tag)
	}
	if filter.Query != "" {
		conditions = append(conditions, "instr(lower(title), lower(?)) > 0")
		args = append(args, filter.Query)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	column, ok := taskSortColumns[filter.Sort]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.Dir, "asc") {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id DESC", column, direction)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// CountCompletedSince counts done tasks whose completion timestamp falls at
// or after the given instant.
func (r *TaskRepository) CountCompletedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM tasks
		 WHERE status = ? AND completed_at IS NOT NULL AND completed_at >= ?`,
		model.StatusDone,
		formatTime(since),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return count, nil
}

// CompletionTimesSince returns the completion timestamps of all done tasks
// from the given instant onward, for day-bucketed streak scans.
func (r *TaskRepository) CompletionTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT completed_at FROM tasks
		 WHERE status = ? AND completed_at IS NOT NULL AND completed_at >= ?`,
		model.StatusDone,
		formatTime(since),
	)
	if err != nil {
		return nil, fmt.Errorf("query completion times: %w", err)
	}
	defer rows.Close()

	times := make([]time.Time, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan completion time: %w", err)
		}
		parsed, err := parseTime(raw)
		if err != nil {
			return nil, fmt.Errorf("parse completion time: %w", err)
		}
		times = append(times, parsed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completion times: %w", err)
	}

	return times, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(s scanner) (*model.Task, error) {
	task := model.Task{}
	var dueDate sql.NullString
	var tags string
	var completedAt sql.NullString
	var createdAt string
	var updatedAt string
	err := s.Scan(
		&task.ID,
		&task.Title,
		&task.Notes,
		&task.Status,
		&task.Priority,
		&dueDate,
		&tags,
		&completedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	if dueDate.Valid {
		parsed, parseErr := parseTime(dueDate.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse task due_date: %w", parseErr)
		}
		task.DueDate = &parsed
	}
	if completedAt.Valid {
		parsed, parseErr := parseTime(completedAt.String)
		if parseErr != nil {
			return nil, fmt.Errorf("parse task completed_at: %w", parseErr)
		}
		task.CompletedAt = &parsed
	}

	if err := json.Unmarshal([]byte(tags), &task.Tags); err != nil {
		return nil, fmt.Errorf("decode task tags: %w", err)
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	parsedCreatedAt, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse task created_at: %w", err)
	}
	task.CreatedAt = parsedCreatedAt

	parsedUpdatedAt, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse task updated_at: %w", err)
	}
	task.UpdatedAt = parsedUpdatedAt

	return &task, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode task tags: %w", err)
	}
	return string(encoded), nil
}
