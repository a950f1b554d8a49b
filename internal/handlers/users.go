package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fq962/atom-challenge-api/internal/middleware"
	"github.com/fq962/atom-challenge-api/internal/response"
	"github.com/fq962/atom-challenge-api/internal/services"
	"github.com/fq962/atom-challenge-api/internal/validation"
)

type UserHandler struct {
	users  services.UserService
	logger zerolog.Logger
}

func NewUserHandler(users services.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// FindByMail handles GET /users/:mail, the login path: an existing
// mail gets a fresh token, an unseen one a 404.
func (h *UserHandler) FindByMail(c *gin.Context) {
	mail, errs := validation.NormalizeMailParam(c.Param("mail"))
	if errs != nil {
		validationFailed(c, errs)
		return
	}

	user, tokenString, err := h.users.LoginByMail(c.Request.Context(), mail)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response.Auth(user, tokenString, true))
}

// CreateUser handles POST /users, the register path. Registering a
// mail that already exists is not an error: the existing user logs in
// again with a 200 instead of a 201.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req validation.CreateUserRequest
	if errs := validation.BindJSON(c, &req); errs != nil {
		validationFailed(c, errs)
		return
	}

	user, tokenString, exists, err := h.users.LoginOrRegister(c.Request.Context(), req.Mail)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	status := http.StatusCreated
	if exists {
		status = http.StatusOK
	}
	c.JSON(status, response.Auth(user, tokenString, exists))
}

// CurrentUser handles GET /users/me for an authenticated caller.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error("user not authenticated", nil))
		return
	}

	user, err := h.users.CurrentUser(c.Request.Context(), identity.UserID)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response.Success("user retrieved successfully", user.AuthProjection(), nil))
}
