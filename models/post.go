package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a blog post with an optional cover image
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     *FileRef  `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
