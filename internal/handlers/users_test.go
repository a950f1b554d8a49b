package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fq962/atom-challenge-api/internal/apperrors"
	"github.com/fq962/atom-challenge-api/internal/handlers"
	"github.com/fq962/atom-challenge-api/internal/middleware"
	"github.com/fq962/atom-challenge-api/internal/models"
	"github.com/fq962/atom-challenge-api/internal/token"
)

type MockUserService struct {
	known    map[string]models.User
	failWith error
}

func NewMockUserService(users ...models.User) *MockUserService {
	m := &MockUserService{known: make(map[string]models.User)}
	for _, user := range users {
		m.known[user.Mail] = user
	}
	return m
}

func (m *MockUserService) LoginByMail(ctx context.Context, mail string) (models.User, string, error) {
	if m.failWith != nil {
		return models.User{}, "", m.failWith
	}
	user, ok := m.known[mail]
	if !ok {
		return models.User{}, "", apperrors.NewNotFoundError("user")
	}
	return user, "issued-token", nil
}

func (m *MockUserService) LoginOrRegister(ctx context.Context, mail string) (models.User, string, bool, error) {
	if m.failWith != nil {
		return models.User{}, "", false, m.failWith
	}
	if user, ok := m.known[mail]; ok {
		return user, "issued-token", true, nil
	}
	user := models.User{ID: "user-new", Mail: mail, CreatedAt: time.Now().UTC()}
	m.known[mail] = user
	return user, "issued-token", false, nil
}

func (m *MockUserService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	if m.failWith != nil {
		return models.User{}, m.failWith
	}
	for _, user := range m.known {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, apperrors.NewNotFoundError("user")
}

func userRouter(t *testing.T, svc *MockUserService) (*gin.Engine, *token.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := testTokens()
	handler := handlers.NewUserHandler(svc, zerolog.Nop())

	router := gin.New()
	group := router.Group("/api/users")
	group.GET("/me", middleware.RequireAuth(tokens), handler.CurrentUser)
	group.GET("/:mail", handler.FindByMail)
	group.POST("", handler.CreateUser)

	return router, tokens
}

func TestFindByMail_ExistingUser(t *testing.T) {
	svc := NewMockUserService(models.User{ID: "user-1", Mail: "known@example.com"})
	router, _ := userRouter(t, svc)

	w := doJSON(router, http.MethodGet, "/api/users/known@example.com", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, "issued-token", body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "user-1", user["id"])
	assert.Equal(t, "known@example.com", user["mail"])
}

func TestFindByMail_NormalizesBeforeLookup(t *testing.T) {
	svc := NewMockUserService(models.User{ID: "user-1", Mail: "known@example.com"})
	router, _ := userRouter(t, svc)

	w := doJSON(router, http.MethodGet, "/api/users/KNOWN@Example.COM", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFindByMail_UnknownMail(t *testing.T) {
	router, _ := userRouter(t, NewMockUserService())

	w := doJSON(router, http.MethodGet, "/api/users/stranger@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestFindByMail_InvalidMail(t *testing.T) {
	router, _ := userRouter(t, NewMockUserService())

	w := doJSON(router, http.MethodGet, "/api/users/not-an-email", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "mail", errs[0].(map[string]any)["field"])
}

func TestCreateUser_FirstRegistration(t *testing.T) {
	router, _ := userRouter(t, NewMockUserService())

	w := doJSON(router, http.MethodPost, "/api/users", "", gin.H{"mail": "fresh@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, "user created successfully", body["message"])
	assert.Equal(t, false, body["exists"])
	assert.Equal(t, "issued-token", body["token"])
}

func TestCreateUser_SecondRegistrationLogsIn(t *testing.T) {
	svc := NewMockUserService()
	router, _ := userRouter(t, svc)

	first := doJSON(router, http.MethodPost, "/api/users", "", gin.H{"mail": "a@b.com"})
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(router, http.MethodPost, "/api/users", "", gin.H{"mail": "a@b.com"})
	require.Equal(t, http.StatusOK, second.Code)

	body := decode(t, second)
	assert.Equal(t, "user found successfully", body["message"])
	assert.Equal(t, true, body["exists"])
	assert.NotEmpty(t, body["token"])
}

func TestCreateUser_MailNormalizedBeforeService(t *testing.T) {
	svc := NewMockUserService()
	router, _ := userRouter(t, svc)

	w := doJSON(router, http.MethodPost, "/api/users", "", gin.H{"mail": "  MiXeD@Example.Com "})
	require.Equal(t, http.StatusCreated, w.Code)

	_, stored := svc.known["mixed@example.com"]
	assert.True(t, stored)
}

func TestCreateUser_MissingMail(t *testing.T) {
	router, _ := userRouter(t, NewMockUserService())

	w := doJSON(router, http.MethodPost, "/api/users", "", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "mail is required", decode(t, w)["message"])
}

func TestCurrentUser(t *testing.T) {
	svc := NewMockUserService(models.User{ID: "user-1", Mail: "me@example.com"})
	router, tokens := userRouter(t, svc)

	bearer, err := tokens.Issue(token.Identity{UserID: "user-1", Mail: "me@example.com"})
	require.NoError(t, err)

	w := doJSON(router, http.MethodGet, "/api/users/me", "Bearer "+bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "me@example.com", data["mail"])
}

func TestCurrentUser_RequiresToken(t *testing.T) {
	router, _ := userRouter(t, NewMockUserService())

	w := doJSON(router, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentUser_DeletedUser(t *testing.T) {
	svc := NewMockUserService()
	router, tokens := userRouter(t, svc)

	bearer, err := tokens.Issue(token.Identity{UserID: "ghost", Mail: "ghost@example.com"})
	require.NoError(t, err)

	w := doJSON(router, http.MethodGet, "/api/users/me", "Bearer "+bearer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
