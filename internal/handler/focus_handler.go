package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "focusd/backend/internal/errors"
	"focusd/backend/internal/service"
)

type FocusHandler struct {
	focus *service.FocusService
}

type startFocusRequest struct {
	TaskID string `json:"taskId"`
}

type stopFocusRequest struct {
	SessionID string `json:"sessionId"`
}

func NewFocusHandler(focus *service.FocusService) *FocusHandler {
	return &FocusHandler{focus: focus}
}

func (h *FocusHandler) Start(c *gin.Context) {
	// taskId is optional, so an empty body is fine.
	var req startFocusRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, apperrors.Validation("invalid request body"))
		return
	}

	session, apiErr := h.focus.Start(c.Request.Context(), req.TaskID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *FocusHandler) Stop(c *gin.Context) {
	var req stopFocusRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, apperrors.Validation("invalid request body"))
		return
	}

	session, apiErr := h.focus.Stop(c.Request.Context(), req.SessionID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *FocusHandler) ListSessions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	sessions, apiErr := h.focus.ListRecent(c.Request.Context(), limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
