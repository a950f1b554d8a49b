// Package validation is the schema boundary for inbound payloads.
// Requests are bound and coerced exactly once here; handlers and
// services receive only normalized, typed values.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fq962/atom-challenge-api/internal/response"
)

func init() {
	// Field names in validation errors use json tags, not Go names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// normalizer is implemented by request types needing a coercion pass
// after binding (trimming, lower-casing, post-trim length checks).
type normalizer interface {
	normalize() []response.FieldError
}

// BindJSON binds and validates a JSON body. A non-nil return means the
// request must be rejected with 400 and never reach the handler logic.
func BindJSON(c *gin.Context, req any) []response.FieldError {
	if err := c.ShouldBindJSON(req); err != nil {
		return fieldErrors(err)
	}
	return runNormalize(req)
}

// BindQuery binds and validates query parameters.
func BindQuery(c *gin.Context, req any) []response.FieldError {
	if err := c.ShouldBindQuery(req); err != nil {
		return fieldErrors(err)
	}
	return runNormalize(req)
}

func runNormalize(req any) []response.FieldError {
	if n, ok := req.(normalizer); ok {
		if errs := n.normalize(); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

func fieldErrors(err error) []response.FieldError {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		errs := make([]response.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			errs = append(errs, response.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
				Code:    fe.Tag(),
			})
		}
		return errs
	}

	// JSON syntax or type mismatch; there is no field to point at.
	return []response.FieldError{{
		Field:   "body",
		Message: "request body is not valid JSON",
		Code:    "invalid_body",
	}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
