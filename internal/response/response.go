// Package response builds the uniform success/error envelopes every
// endpoint returns.
package response

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fq962/atom-challenge-api/internal/models"
)

// FieldError is one entry of a structured validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"errorCode"`
}

// TaskPayload is the client-facing task shape; created_at is always an
// ISO-8601 string.
type TaskPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsDone      bool   `json:"is_done"`
	Priority    int    `json:"priority"`
	CreatedAt   string `json:"created_at"`
}

func Success(message string, data any, extra gin.H) gin.H {
	envelope := gin.H{
		"success":   true,
		"message":   message,
		"data":      data,
		"timestamp": timestamp(),
	}
	for k, v := range extra {
		envelope[k] = v
	}
	return envelope
}

func Error(message string, extra gin.H) gin.H {
	envelope := gin.H{
		"success":   false,
		"message":   message,
		"timestamp": timestamp(),
	}
	for k, v := range extra {
		envelope[k] = v
	}
	return envelope
}

// ValidationFailed builds the 400 envelope for a structured list of
// field errors. A single entry surfaces its own message; multiple
// entries fall back to a generic one.
func ValidationFailed(errs []FieldError) gin.H {
	message := "validation failed"
	if len(errs) == 1 {
		message = errs[0].Message
	}
	return Error(message, gin.H{
		"errors":     errs,
		"statusCode": 400,
	})
}

func Task(task models.Task) TaskPayload {
	return TaskPayload{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		IsDone:      task.IsDone,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func Tasks(tasks []models.Task) []TaskPayload {
	payloads := make([]TaskPayload, 0, len(tasks))
	for _, task := range tasks {
		payloads = append(payloads, Task(task))
	}
	return payloads
}

// TaskList carries the list plus counts over the returned set and the
// queried user id.
func TaskList(message string, tasks []models.Task, userID string) gin.H {
	completed := 0
	for _, task := range tasks {
		if task.IsDone {
			completed++
		}
	}

	return Success(message, Tasks(tasks), gin.H{
		"count":     len(tasks),
		"completed": completed,
		"pending":   len(tasks) - completed,
		"id_user":   userID,
	})
}

// Auth builds login/registration responses: the token, whether the
// user already existed, and a safe projection of the user.
func Auth(user models.User, tokenString string, exists bool) gin.H {
	message := "user created successfully"
	if exists {
		message = "user found successfully"
	}
	return Success(message, nil, gin.H{
		"token":  tokenString,
		"exists": exists,
		"user":   user.AuthProjection(),
	})
}

func RouteNotFound(path string) gin.H {
	return gin.H{
		"success": false,
		"message": "endpoint not found",
		"path":    path,
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
