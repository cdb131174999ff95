package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a community feed entry written by a practitioner.
type Post struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	ImagePath *string   `json:"image_path" db:"image_path"`
	Likes     int       `json:"likes" db:"likes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
