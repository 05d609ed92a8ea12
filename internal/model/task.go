package model

import "time"

const (
	StatusTodo  = "todo"
	StatusDoing = "doing"
	StatusDone  = "done"
)

const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3

	DefaultPriority = PriorityMedium
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes"`
	Status      string     `json:"status"`
	Priority    int        `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

func ValidPriority(priority int) bool {
	return priority >= PriorityHigh && priority <= PriorityLow
}
