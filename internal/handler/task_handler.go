package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "focusd/backend/internal/errors"
	"focusd/backend/internal/service"
)

type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Loosely-typed request bodies: title must be text, everything else is
// coerced and falls back to defaults instead of rejecting the request.
type createTaskRequest struct {
	Title    json.RawMessage `json:"title"`
	Notes    string          `json:"notes"`
	Status   string          `json:"status"`
	Priority json.RawMessage `json:"priority"`
	DueDate  string          `json:"dueDate"`
	Tags     json.RawMessage `json:"tags"`
}

type updateTaskRequest struct {
	Title    *string         `json:"title"`
	Notes    *string         `json:"notes"`
	Status   *string         `json:"status"`
	Priority json.RawMessage `json:"priority"`
	DueDate  json.RawMessage `json:"dueDate"`
	Tags     json.RawMessage `json:"tags"`
}

func (h *TaskHandler) List(c *gin.Context) {
	filter := service.ListTasksFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Tag:      c.Query("tag"),
		Query:    c.Query("q"),
		Sort:     c.Query("sort"),
		Dir:      c.Query("dir"),
	}

	tasks, apiErr := h.tasks.ListTasks(c.Request.Context(), filter)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.Validation("invalid request body"))
		return
	}

	var title string
	if len(req.Title) > 0 {
		if err := json.Unmarshal(req.Title, &title); err != nil {
			writeError(c, apperrors.Validation("title must be text"))
			return
		}
	}

	task, apiErr := h.tasks.CreateTask(c.Request.Context(), service.CreateTaskInput{
		Title:    title,
		Notes:    req.Notes,
		Status:   req.Status,
		Priority: coercePriority(req.Priority),
		DueDate:  coerceDate(req.DueDate),
		Tags:     coerceTags(req.Tags),
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.Validation("invalid request body"))
		return
	}

	fields := service.UpdateTaskFields{
		Title:  req.Title,
		Notes:  req.Notes,
		Status: req.Status,
	}
	if present(req.Priority) {
		priority := coercePriority(req.Priority)
		fields.Priority = &priority
	}
	if present(req.DueDate) {
		fields.DueDateSet = true
		var raw string
		if err := json.Unmarshal(req.DueDate, &raw); err == nil {
			fields.DueDate = coerceDate(raw)
		}
	}
	if present(req.Tags) {
		fields.TagsSet = true
		fields.Tags = coerceTags(req.Tags)
	}

	task, apiErr := h.tasks.UpdateTask(c.Request.Context(), c.Param("id"), fields)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if apiErr := h.tasks.DeleteTask(c.Request.Context(), c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// present distinguishes a key that appeared in the body (including as
// null) from one that was absent entirely.
func present(raw json.RawMessage) bool {
	return len(raw) > 0
}

func coercePriority(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return int(number)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if parsed, parseErr := strconv.Atoi(strings.TrimSpace(text)); parseErr == nil {
			return parsed
		}
	}
	return 0
}

func coerceDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}

// coerceTags turns anything that is not an array of strings into an empty
// tag list.
func coerceTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
