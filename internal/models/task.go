package models

import (
	"time"
)

// Task field names in bson tags are the canonical write-path names.
// Historical documents carry drifted variants; those are reconciled on
// read by the factory package, never here.
type Task struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	IsDone      bool      `json:"is_done" bson:"is_done"`
	Priority    int       `json:"priority" bson:"priority"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	OwnerID     string    `json:"id_user" bson:"id_user"`
}
