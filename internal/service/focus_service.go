package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	apperrors "focusd/backend/internal/errors"
	"focusd/backend/internal/model"
	"focusd/backend/internal/repository"
)

const (
	DefaultSessionLimit = 20
	MaxSessionLimit     = 100
)

type FocusService struct {
	repo *repository.FocusSessionRepository
	now  func() time.Time
}

func NewFocusService(repo *repository.FocusSessionRepository) *FocusService {
	return &FocusService{repo: repo, now: time.Now}
}

// Start creates an open session. The task reference is weak: a malformed
// taskId is dropped silently and the session starts without one.
func (s *FocusService) Start(ctx context.Context, taskID string) (*model.FocusSession, *apperrors.APIError) {
	var ref *string
	if taskID != "" {
		if _, err := uuid.Parse(taskID); err == nil {
			ref = &taskID
		}
	}

	now := s.now().UTC()
	session := model.FocusSession{
		ID:          uuid.NewString(),
		TaskID:      ref,
		StartedAt:   now,
		EndedAt:     now,
		DurationMin: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, &session); err != nil {
		return nil, apperrors.Store("failed to start focus session")
	}
	return &session, nil
}

// Stop closes an open session, computing elapsed minutes from the original
// start. Negative elapsed time (clock skew) floors at zero. Stopping an
// already-stopped session is rejected rather than recomputed, so a
// recorded duration never changes after the fact.
func (s *FocusService) Stop(ctx context.Context, sessionID string) (*model.FocusSession, *apperrors.APIError) {
	if sessionID == "" {
		return nil, apperrors.MissingParameter("sessionId")
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, apperrors.InvalidID("session id")
	}

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("focus session")
		}
		return nil, apperrors.Store("failed to load focus session")
	}

	if session.Stopped() {
		return nil, apperrors.Validation("focus session already stopped")
	}

	now := s.now().UTC()
	minutes := int(math.Round(now.Sub(session.StartedAt).Minutes()))
	if minutes < 0 {
		minutes = 0
	}

	session.EndedAt = now
	session.DurationMin = minutes
	session.UpdatedAt = now

	if err := s.repo.Update(ctx, session); err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("focus session")
		}
		return nil, apperrors.Store("failed to stop focus session")
	}
	return session, nil
}

// ListRecent returns the newest sessions with task titles resolved. The
// limit defaults to 20 when unset or non-positive and caps at 100.
func (s *FocusService) ListRecent(ctx context.Context, limit int) ([]model.FocusSessionWithTask, *apperrors.APIError) {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	if limit > MaxSessionLimit {
		limit = MaxSessionLimit
	}

	sessions, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.Store("failed to list focus sessions")
	}
	return sessions, nil
}
