// Package handlers contains the gin handlers behind the route table.
// Each handler binds and validates input, pulls the caller identity
// from the request context, delegates to a service and shapes the
// outcome into the response envelope.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fq962/atom-challenge-api/internal/apperrors"
	"github.com/fq962/atom-challenge-api/internal/response"
)

// serviceError translates a service-layer error into the envelope for
// its taxonomy status. Unrecognized errors become an opaque 500; their
// detail goes to the log, never the client.
func serviceError(c *gin.Context, logger zerolog.Logger, err error) {
	status := apperrors.HTTPStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		message = "internal server error"
	}

	c.JSON(status, response.Error(message, nil))
}

func validationFailed(c *gin.Context, errs []response.FieldError) {
	c.JSON(http.StatusBadRequest, response.ValidationFailed(errs))
}
