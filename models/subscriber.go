package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber represents an email address registered to receive newsletter
// notifications. Emails are stored lowercased; uniqueness is enforced on the
// lowercased form at the database level.
type Subscriber struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Active       bool      `json:"active"`
	SubscribedAt time.Time `json:"subscribedAt"`
}
