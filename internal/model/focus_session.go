package model

import "time"

// FocusSession is created in the open state (EndedAt == StartedAt,
// DurationMin == 0) and mutated exactly once when stopped.
type FocusSession struct {
	ID          string    `json:"id"`
	TaskID      *string   `json:"taskId,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	EndedAt     time.Time `json:"endedAt"`
	DurationMin int       `json:"durationMin"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Stopped reports whether the session has been closed. Open sessions carry
// EndedAt identical to StartedAt, down to the nanosecond.
func (s *FocusSession) Stopped() bool {
	return s.DurationMin > 0 || !s.EndedAt.Equal(s.StartedAt)
}

// TaskRef is the resolved view of a session's weak task reference. The
// referenced task may have been deleted, in which case no ref is attached.
type TaskRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type FocusSessionWithTask struct {
	FocusSession
	Task *TaskRef `json:"task,omitempty"`
}
