package service

import (
	"context"
	"time"

	apperrors "focusd/backend/internal/errors"
	"focusd/backend/internal/repository"
)

// streakWindowDays bounds the backward day-by-day streak scan.
const streakWindowDays = 60

type StatsService struct {
	tasks    *repository.TaskRepository
	sessions *repository.FocusSessionRepository
	now      func() time.Time
}

func NewStatsService(tasks *repository.TaskRepository, sessions *repository.FocusSessionRepository) *StatsService {
	return &StatsService{tasks: tasks, sessions: sessions, now: time.Now}
}

type Overview struct {
	TodayCompleted     int `json:"todayCompleted"`
	Streak             int `json:"streak"`
	WeeklyFocusMinutes int `json:"weeklyFocusMinutes"`
}

// Overview derives the three dashboard values. The reads are independent;
// there is no shared transaction, so a benign staleness window exists
// between them.
func (s *StatsService) Overview(ctx context.Context) (*Overview, *apperrors.APIError) {
	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayCompleted, err := s.tasks.CountCompletedSince(ctx, startOfToday)
	if err != nil {
		return nil, apperrors.Internal("failed to compute today's completions")
	}

	completions, err := s.tasks.CompletionTimesSince(ctx, startOfToday.AddDate(0, 0, -(streakWindowDays-1)))
	if err != nil {
		return nil, apperrors.Internal("failed to compute completion streak")
	}

	weeklyMinutes, err := s.sessions.SumDurationSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, apperrors.Internal("failed to compute weekly focus minutes")
	}

	return &Overview{
		TodayCompleted:     todayCompleted,
		Streak:             streak(completions, startOfToday),
		WeeklyFocusMinutes: weeklyMinutes,
	}, nil
}

// streak counts consecutive covered days walking backward from today. All
// timestamps are bucketed in startOfToday's location so every record uses
// the same calendar-day reference. An uncovered today yields zero.
func streak(completions []time.Time, startOfToday time.Time) int {
	covered := make(map[string]struct{}, len(completions))
	location := startOfToday.Location()
	for _, completedAt := range completions {
		covered[dayKey(completedAt.In(location))] = struct{}{}
	}

	count := 0
	for offset := 0; offset < streakWindowDays; offset++ {
		day := startOfToday.AddDate(0, 0, -offset)
		if _, ok := covered[dayKey(day)]; !ok {
			break
		}
		count++
	}
	return count
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
