// Package factory is the construction boundary between raw input or
// raw storage documents and well-formed domain entities. The create
// path validates and fails; the storage read path reconciles drifted
// field names and never fails.
package factory

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fq962/atom-challenge-api/internal/apperrors"
	"github.com/fq962/atom-challenge-api/internal/models"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
	minPriority          = 0
	maxPriority          = 10

	// AnonymousOwner is the sentinel owner for documents whose owner
	// reference is missing under every known field name.
	AnonymousOwner = "anonymous"
)

type CreateTaskDTO struct {
	Title       string
	Description string
	Priority    *int
	OwnerID     string
}

type UpdateTaskDTO struct {
	Title       *string
	Description *string
	IsDone      *bool
	Priority    *int
}

// NewTask builds a task from a create request. New tasks always start
// pending with the creation timestamp set here.
func NewTask(dto CreateTaskDTO) (models.Task, error) {
	title, err := normalizeTitle(dto.Title)
	if err != nil {
		return models.Task{}, err
	}

	description, err := normalizeDescription(dto.Description)
	if err != nil {
		return models.Task{}, err
	}

	priority, err := normalizePriority(dto.Priority)
	if err != nil {
		return models.Task{}, err
	}

	return models.Task{
		Title:       title,
		Description: description,
		Priority:    priority,
		IsDone:      false,
		CreatedAt:   time.Now().UTC(),
		OwnerID:     dto.OwnerID,
	}, nil
}

// TaskFromDocument reconciles a raw stored document into a Task. The
// collection schema has drifted over time, so each field is resolved
// through an ordered fallback chain; bad or missing values coerce to
// safe defaults and a read never fails.
//
// Fallback chains:
//
//	is_done:    is_done -> id_done (historical misspelling) -> false
//	priority:   priority clamped into [0,10] -> 0
//	created_at: created_at -> createdAt -> now
//	owner:      id_user -> userId -> user_id -> "anonymous"
func TaskFromDocument(id string, doc bson.M) models.Task {
	return models.Task{
		ID:          id,
		Title:       stringField(doc, "title"),
		Description: stringField(doc, "description"),
		IsDone:      boolField(doc, "is_done", "id_done"),
		Priority:    clampPriority(doc["priority"]),
		CreatedAt:   timeField(doc, "created_at", "createdAt"),
		OwnerID:     ownerField(doc, "id_user", "userId", "user_id"),
	}
}

// ApplyUpdate re-validates only the fields present in the patch and
// returns a copy of the task with them applied.
func ApplyUpdate(existing models.Task, patch UpdateTaskDTO) (models.Task, error) {
	updated := existing

	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return models.Task{}, err
		}
		updated.Title = title
	}

	if patch.Description != nil {
		description, err := normalizeDescription(*patch.Description)
		if err != nil {
			return models.Task{}, err
		}
		updated.Description = description
	}

	if patch.Priority != nil {
		priority, err := normalizePriority(patch.Priority)
		if err != nil {
			return models.Task{}, err
		}
		updated.Priority = priority
	}

	if patch.IsDone != nil {
		if *patch.IsDone {
			return MarkCompleted(updated)
		}
		return MarkPending(updated)
	}

	return updated, nil
}

// MarkCompleted fails if the task is already completed. The guard is
// deliberate: re-completing is an error, not a silent no-op.
func MarkCompleted(task models.Task) (models.Task, error) {
	if task.IsDone {
		return models.Task{}, apperrors.NewValidationError("task is already marked as completed")
	}
	task.IsDone = true
	return task, nil
}

// MarkPending fails if the task is already pending.
func MarkPending(task models.Task) (models.Task, error) {
	if !task.IsDone {
		return models.Task{}, apperrors.NewValidationError("task is already marked as pending")
	}
	task.IsDone = false
	return task, nil
}

func normalizeTitle(title string) (string, error) {
	normalized := strings.TrimSpace(title)
	if normalized == "" {
		return "", apperrors.NewValidationError("title must not be empty")
	}
	if utf8.RuneCountInString(normalized) > maxTitleLength {
		return "", apperrors.NewValidationError("title must not exceed 100 characters")
	}
	return normalized, nil
}

func normalizeDescription(description string) (string, error) {
	normalized := strings.TrimSpace(description)
	if utf8.RuneCountInString(normalized) > maxDescriptionLength {
		return "", apperrors.NewValidationError("description must not exceed 500 characters")
	}
	return normalized, nil
}

func normalizePriority(priority *int) (int, error) {
	if priority == nil {
		return 0, nil
	}
	if *priority < minPriority || *priority > maxPriority {
		return 0, apperrors.NewValidationError("priority must be between 0 and 10")
	}
	return *priority, nil
}

func stringField(doc bson.M, key string) string {
	if value, ok := doc[key].(string); ok {
		return value
	}
	return ""
}

func boolField(doc bson.M, keys ...string) bool {
	for _, key := range keys {
		if value, ok := doc[key].(bool); ok {
			return value
		}
	}
	return false
}

func clampPriority(raw any) int {
	var priority int
	switch value := raw.(type) {
	case int:
		priority = value
	case int32:
		priority = int(value)
	case int64:
		priority = int(value)
	case float64:
		priority = int(value)
	default:
		return 0
	}

	if priority < minPriority {
		return minPriority
	}
	if priority > maxPriority {
		return maxPriority
	}
	return priority
}

func timeField(doc bson.M, keys ...string) time.Time {
	for _, key := range keys {
		switch value := doc[key].(type) {
		case time.Time:
			return value
		case primitive.DateTime:
			return value.Time()
		}
	}
	// Missing timestamps must never fail a read.
	return time.Now().UTC()
}

// ownerField resolves the task owner reference to a plain identifier
// string. Owners were stored over time as raw id strings, ObjectIDs,
// DBRefs, and embedded reference documents.
func ownerField(doc bson.M, keys ...string) string {
	for _, key := range keys {
		switch value := doc[key].(type) {
		case string:
			if value != "" {
				return value
			}
		case primitive.ObjectID:
			return value.Hex()
		case bson.M:
			if id := refID(value["id"]); id != "" {
				return id
			}
			if id := refID(value["$id"]); id != "" {
				return id
			}
		case bson.D:
			// Embedded documents decode ordered when the parent was
			// read into an interface value.
			for _, elem := range value {
				if elem.Key != "id" && elem.Key != "$id" {
					continue
				}
				if id := refID(elem.Value); id != "" {
					return id
				}
			}
		}
	}
	return AnonymousOwner
}

func refID(raw any) string {
	switch value := raw.(type) {
	case string:
		return value
	case primitive.ObjectID:
		return value.Hex()
	default:
		return ""
	}
}
