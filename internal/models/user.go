package models

import (
	"time"
)

type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Mail      string    `json:"mail" bson:"mail"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// AuthProjection is the only user shape that leaves the API on auth
// responses. Storage-internal fields stay out.
type AuthProjection struct {
	ID   string `json:"id"`
	Mail string `json:"mail"`
}

func (u User) AuthProjection() AuthProjection {
	return AuthProjection{ID: u.ID, Mail: u.Mail}
}
