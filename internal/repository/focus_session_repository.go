package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"focusd/backend/internal/model"
)

const sessionColumns = `id, task_id, started_at, ended_at, duration_min, created_at, updated_at`

type FocusSessionRepository struct {
	db *sql.DB
}

func NewFocusSessionRepository(db *sql.DB) *FocusSessionRepository {
	return &FocusSessionRepository{db: db}
}

func (r *FocusSessionRepository) Insert(ctx context.Context, session *model.FocusSession) error {
	var taskID interface{}
	if session.TaskID != nil {
		taskID = *session.TaskID
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO focus_sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		taskID,
		formatTime(session.StartedAt),
		formatTime(session.EndedAt),
		session.DurationMin,
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *FocusSessionRepository) Get(ctx context.Context, id string) (*model.FocusSession, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT `+sessionColumns+` FROM focus_sessions WHERE id = ?`,
		id,
	)
	return scanFocusSession(row)
}

func (r *FocusSessionRepository) Update(ctx context.Context, session *model.FocusSession) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE focus_sessions
		 SET ended_at = ?,
		     duration_min = ?,
		     updated_at = ?
		 WHERE id = ?`,
		formatTime(session.EndedAt),
		session.DurationMin,
		formatTime(session.UpdatedAt),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRecent returns sessions newest first, each with its weak task
// reference resolved where the referenced task still exists.
func (r *FocusSessionRepository) ListRecent(ctx context.Context, limit int) ([]model.FocusSessionWithTask, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT s.id, s.task_id, s.started_at, s.ended_at, s.duration_min, s.created_at, s.updated_at,
		        t.id, t.title
		 FROM focus_sessions s
		 LEFT JOIN tasks t ON t.id = s.task_id
		 ORDER BY s.created_at DESC, s.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.FocusSessionWithTask, 0, limit)
	for rows.Next() {
		item := model.FocusSessionWithTask{}
		var taskID sql.NullString
		var startedAt, endedAt, createdAt, updatedAt string
		var refID, refTitle sql.NullString
		if err := rows.Scan(
			&item.ID,
			&taskID,
			&startedAt,
			&endedAt,
			&item.DurationMin,
			&createdAt,
			&updatedAt,
			&refID,
			&refTitle,
		); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}

		if taskID.Valid {
			value := taskID.String
			item.TaskID = &value
		}
		if item.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, fmt.Errorf("parse session started_at: %w", err)
		}
		if item.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, fmt.Errorf("parse session ended_at: %w", err)
		}
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse session created_at: %w", err)
		}
		if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parse session updated_at: %w", err)
		}

		// Dangling references yield no task ref rather than an error.
		if refID.Valid && refTitle.Valid {
			item.Task = &model.TaskRef{ID: refID.String, Title: refTitle.String}
		}

		sessions = append(sessions, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// SumDurationSince aggregates recorded focus minutes for sessions started at
// or after the given instant. Open sessions carry duration 0 and contribute
// nothing.
func (r *FocusSessionRepository) SumDurationSince(ctx context.Context, since time.Time) (int, error) {
	var total int
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COALESCE(SUM(duration_min), 0) FROM focus_sessions WHERE started_at >= ?`,
		formatTime(since),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum session durations: %w", err)
	}
	return total, nil
}

func scanFocusSession(s scanner) (*model.FocusSession, error) {
	session := model.FocusSession{}
	var taskID sql.NullString
	var startedAt, endedAt, createdAt, updatedAt string
	err := s.Scan(
		&session.ID,
		&taskID,
		&startedAt,
		&endedAt,
		&session.DurationMin,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if taskID.Valid {
		value := taskID.String
		session.TaskID = &value
	}

	if session.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parse session started_at: %w", err)
	}
	if session.EndedAt, err = parseTime(endedAt); err != nil {
		return nil, fmt.Errorf("parse session ended_at: %w", err)
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse session updated_at: %w", err)
	}

	return &session, nil
}
