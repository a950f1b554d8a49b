package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fq962/atom-challenge-api/internal/apperrors"
	"github.com/fq962/atom-challenge-api/internal/factory"
	"github.com/fq962/atom-challenge-api/internal/middleware"
	"github.com/fq962/atom-challenge-api/internal/response"
	"github.com/fq962/atom-challenge-api/internal/services"
	"github.com/fq962/atom-challenge-api/internal/validation"
)

type TaskHandler struct {
	tasks  services.TaskService
	logger zerolog.Logger
}

func NewTaskHandler(tasks services.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

// ListTasks handles GET /tasks. An id_user query parameter may only
// name the caller; any other value is rejected by the service.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("user not authenticated", nil))
		return
	}

	var query validation.ListTasksQuery
	if errs := validation.BindQuery(c, &query); errs != nil {
		validationFailed(c, errs)
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), identity.UserID, query.UserID)
	if err != nil {
		var forbidden *apperrors.ForbiddenError
		if errors.As(err, &forbidden) {
			// The rejection echoes the caller's own id, never the
			// requested one.
			c.JSON(http.StatusForbidden, response.Error(err.Error(), gin.H{"id_user": identity.UserID}))
			return
		}
		serviceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response.TaskList("tasks retrieved successfully", tasks, identity.UserID))
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("user not authenticated", nil))
		return
	}

	var req validation.CreateTaskRequest
	if errs := validation.BindJSON(c, &req); errs != nil {
		validationFailed(c, errs)
		return
	}

	dto := factory.CreateTaskDTO{Title: req.Title, Priority: req.Priority}
	if req.Description != nil {
		dto.Description = *req.Description
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), identity.UserID, dto)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success("task created successfully", response.Task(task), nil))
}

// UpdateTask handles PATCH /tasks; the task id travels in the body.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("user not authenticated", nil))
		return
	}

	var req validation.UpdateTaskRequest
	if errs := validation.BindJSON(c, &req); errs != nil {
		validationFailed(c, errs)
		return
	}

	patch := factory.UpdateTaskDTO{
		Title:       req.Title,
		Description: req.Description,
		IsDone:      req.IsDone,
		Priority:    req.Priority,
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), identity.UserID, req.ID, patch)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response.Success("task updated successfully", response.Task(task), nil))
}

// DeleteTask handles DELETE /tasks; the task id travels in the body.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("user not authenticated", nil))
		return
	}

	var req validation.DeleteTaskRequest
	if errs := validation.BindJSON(c, &req); errs != nil {
		validationFailed(c, errs)
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), identity.UserID, req.ID); err != nil {
		serviceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response.Success("task deleted successfully", nil, gin.H{"id": req.ID}))
}
