package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/fq962/atom-challenge-api/internal/factory"
	"github.com/fq962/atom-challenge-api/internal/response"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
)

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority" binding:"omitempty,min=0,max=10"`
}

func (r *CreateTaskRequest) normalize() []response.FieldError {
	var errs []response.FieldError

	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		errs = append(errs, response.FieldError{
			Field: "title", Message: "title must not be empty", Code: "required",
		})
	} else if utf8.RuneCountInString(r.Title) > maxTitleLength {
		errs = append(errs, response.FieldError{
			Field: "title", Message: "title must not exceed 100 characters", Code: "max",
		})
	}

	if r.Description != nil {
		trimmed := strings.TrimSpace(*r.Description)
		r.Description = &trimmed
		if utf8.RuneCountInString(trimmed) > maxDescriptionLength {
			errs = append(errs, response.FieldError{
				Field: "description", Message: "description must not exceed 500 characters", Code: "max",
			})
		}
	}

	return errs
}

type UpdateTaskRequest struct {
	ID          string  `json:"id" binding:"required"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsDone      *bool   `json:"is_done"`
	Priority    *int    `json:"priority" binding:"omitempty,min=0,max=10"`
}

func (r *UpdateTaskRequest) normalize() []response.FieldError {
	var errs []response.FieldError

	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		r.Title = &trimmed
		if trimmed == "" {
			errs = append(errs, response.FieldError{
				Field: "title", Message: "title must not be empty", Code: "required",
			})
		} else if utf8.RuneCountInString(trimmed) > maxTitleLength {
			errs = append(errs, response.FieldError{
				Field: "title", Message: "title must not exceed 100 characters", Code: "max",
			})
		}
	}

	if r.Description != nil {
		trimmed := strings.TrimSpace(*r.Description)
		r.Description = &trimmed
		if utf8.RuneCountInString(trimmed) > maxDescriptionLength {
			errs = append(errs, response.FieldError{
				Field: "description", Message: "description must not exceed 500 characters", Code: "max",
			})
		}
	}

	return errs
}

type DeleteTaskRequest struct {
	ID string `json:"id" binding:"required"`
}

type ListTasksQuery struct {
	UserID string `form:"id_user"`
}

func (q *ListTasksQuery) normalize() []response.FieldError {
	q.UserID = strings.TrimSpace(q.UserID)
	return nil
}

type CreateUserRequest struct {
	Mail string `json:"mail" binding:"required"`
}

func (r *CreateUserRequest) normalize() []response.FieldError {
	normalized, err := factory.NormalizeMail(r.Mail)
	if err != nil {
		return []response.FieldError{{
			Field: "mail", Message: err.Error(), Code: "email",
		}}
	}
	r.Mail = normalized
	return nil
}

// NormalizeMailParam validates the mail path parameter of
// GET /users/:mail, which bypasses body binding.
func NormalizeMailParam(raw string) (string, []response.FieldError) {
	normalized, err := factory.NormalizeMail(raw)
	if err != nil {
		return "", []response.FieldError{{
			Field: "mail", Message: err.Error(), Code: "email",
		}}
	}
	return normalized, nil
}
