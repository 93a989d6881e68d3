package service

import (
	"context"
	"log/slog"

	"jumpstart-backend/models"
	"jumpstart-backend/storage"

	"github.com/google/uuid"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo PostRepository
	storage  storage.Storage
	logger   *slog.Logger
}

// NewPostService creates a new post service
func NewPostService(postRepo PostRepository, store storage.Storage, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{postRepo: postRepo, storage: store, logger: logger}
}

// CreatePost validates and persists a blog post. The image, when present,
// has already been written to storage; on error the caller removes it again.
func (s *PostService) CreatePost(ctx context.Context, title, content string, image *models.FileRef) (*models.Post, error) {
	if title == "" {
		return nil, models.NewValidationError(models.CodeMissingTitle, "title is required")
	}
	if content == "" {
		return nil, models.NewValidationError(models.CodeMissingContent, "content is required")
	}

	post := &models.Post{
		Title:   title,
		Content: content,
		Image:   image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// ListPosts retrieves all posts, newest first
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// UpdatePost applies a partial update. A new image replaces the previous
// one; the replaced artifact is deleted after the record is persisted.
func (s *PostService) UpdatePost(ctx context.Context, id uuid.UUID, title, content *string, image *models.FileRef) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := post.Image

	if title != nil {
		if *title == "" {
			return nil, models.NewValidationError(models.CodeMissingTitle, "title must not be empty")
		}
		post.Title = *title
	}
	if content != nil {
		if *content == "" {
			return nil, models.NewValidationError(models.CodeMissingContent, "content must not be empty")
		}
		post.Content = *content
	}
	if image != nil {
		post.Image = image
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if image != nil && previous != nil && previous.StoragePath != image.StoragePath {
		s.removeArtifact(ctx, *previous)
	}

	return post, nil
}

// DeletePost removes the record, then best-effort deletes the cover image
func (s *PostService) DeletePost(ctx context.Context, id uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	if post.Image != nil {
		s.removeArtifact(ctx, *post.Image)
	}

	return nil
}

func (s *PostService) removeArtifact(ctx context.Context, ref models.FileRef) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, ref.StoragePath); err != nil {
		s.logger.Warn("failed to delete artifact",
			slog.String("path", ref.StoragePath),
			slog.String("error", err.Error()))
	}
}
