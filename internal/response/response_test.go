package response

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fq962/atom-challenge-api/internal/models"
)

func TestSuccessEnvelope(t *testing.T) {
	envelope := Success("done", gin.H{"k": "v"}, gin.H{"extra": 1})

	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "done", envelope["message"])
	assert.Equal(t, gin.H{"k": "v"}, envelope["data"])
	assert.Equal(t, 1, envelope["extra"])
	assert.NotEmpty(t, envelope["timestamp"])
}

func TestErrorEnvelope(t *testing.T) {
	envelope := Error("boom", gin.H{"statusCode": 500})

	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "boom", envelope["message"])
	assert.Equal(t, 500, envelope["statusCode"])
	assert.NotEmpty(t, envelope["timestamp"])
	assert.NotContains(t, envelope, "data")
}

func TestValidationFailed_SingleErrorUsesItsMessage(t *testing.T) {
	envelope := ValidationFailed([]FieldError{
		{Field: "title", Message: "title must not be empty", Code: "required"},
	})

	assert.Equal(t, "title must not be empty", envelope["message"])
	assert.Equal(t, 400, envelope["statusCode"])
}

func TestValidationFailed_MultipleErrorsUseGenericMessage(t *testing.T) {
	envelope := ValidationFailed([]FieldError{
		{Field: "title", Message: "too long", Code: "max"},
		{Field: "priority", Message: "out of range", Code: "max"},
	})

	assert.Equal(t, "validation failed", envelope["message"])
	errs, ok := envelope["errors"].([]FieldError)
	require.True(t, ok)
	assert.Len(t, errs, 2)
}

func TestTaskPayload_FormatsCreatedAt(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	payload := Task(models.Task{
		ID:        "t-1",
		Title:     "Report",
		IsDone:    true,
		Priority:  3,
		CreatedAt: createdAt,
		OwnerID:   "u-1",
	})

	assert.Equal(t, "2024-03-01T12:00:00Z", payload.CreatedAt)
	assert.Equal(t, "t-1", payload.ID)
	assert.True(t, payload.IsDone)
}

func TestTaskList_Stats(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", IsDone: true},
		{ID: "2", IsDone: false},
		{ID: "3", IsDone: false},
	}

	envelope := TaskList("tasks retrieved successfully", tasks, "user-9")

	assert.Equal(t, 3, envelope["count"])
	assert.Equal(t, 1, envelope["completed"])
	assert.Equal(t, 2, envelope["pending"])
	assert.Equal(t, "user-9", envelope["id_user"])
}

func TestTaskList_EmptyIsNotNil(t *testing.T) {
	envelope := TaskList("tasks retrieved successfully", nil, "user-9")

	payloads, ok := envelope["data"].([]TaskPayload)
	require.True(t, ok)
	assert.NotNil(t, payloads)
	assert.Len(t, payloads, 0)
	assert.Equal(t, 0, envelope["count"])
}

func TestAuthResponse_SafeProjection(t *testing.T) {
	user := models.User{ID: "u-1", Mail: "a@b.com", CreatedAt: time.Now()}

	envelope := Auth(user, "signed-token", true)

	assert.Equal(t, "signed-token", envelope["token"])
	assert.Equal(t, true, envelope["exists"])
	assert.Equal(t, "user found successfully", envelope["message"])

	projection, ok := envelope["user"].(models.AuthProjection)
	require.True(t, ok)
	assert.Equal(t, "u-1", projection.ID)
	assert.Equal(t, "a@b.com", projection.Mail)

	envelope = Auth(user, "signed-token", false)
	assert.Equal(t, "user created successfully", envelope["message"])
}

func TestRouteNotFound(t *testing.T) {
	envelope := RouteNotFound("/api/nope")

	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "/api/nope", envelope["path"])
}
