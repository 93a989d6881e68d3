package service

import (
	"context"

	"jumpstart-backend/models"

	"github.com/google/uuid"
)

// Repository interfaces consumed by the services. The repository package
// provides the Postgres implementations; tests substitute in-memory fakes.

// NewsletterRepository persists newsletter records
type NewsletterRepository interface {
	Create(ctx context.Context, newsletter *models.Newsletter) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Newsletter, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Newsletter, error)
	Update(ctx context.Context, newsletter *models.Newsletter) error
	MarkNotified(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriberRepository persists subscriber records
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) error
	ListActive(ctx context.Context) ([]*models.Subscriber, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByEmail(ctx context.Context, email string) error
}

// PostRepository persists blog post records
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminRepository looks up admin accounts for authentication
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
