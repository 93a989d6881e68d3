package service

import (
	"context"
	"errors"
	"log/slog"

	"jumpstart-backend/models"
	"jumpstart-backend/storage"

	"github.com/google/uuid"
)

// NewsletterService handles business logic for newsletters, keeping the
// database records and stored file artifacts consistent.
type NewsletterService struct {
	newsletterRepo NewsletterRepository
	storage        storage.Storage
	logger         *slog.Logger
}

// NewsletterServiceOption is a functional option for NewsletterService
type NewsletterServiceOption func(*NewsletterService)

// WithNewsletterRepository sets the newsletter repository
func WithNewsletterRepository(repo NewsletterRepository) NewsletterServiceOption {
	return func(s *NewsletterService) {
		s.newsletterRepo = repo
	}
}

// WithStorage sets the artifact storage backend
func WithStorage(store storage.Storage) NewsletterServiceOption {
	return func(s *NewsletterService) {
		s.storage = store
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) NewsletterServiceOption {
	return func(s *NewsletterService) {
		s.logger = logger
	}
}

// NewNewsletterService creates a new newsletter service
func NewNewsletterService(opts ...NewsletterServiceOption) *NewsletterService {
	s := &NewsletterService{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateNewsletterInput carries parsed fields plus references to files that
// have already been durably written to storage. The files are written first
// and the record second; on any error the caller removes the files so no
// orphan artifacts are left behind.
type CreateNewsletterInput struct {
	Title         string
	Description   string
	TemplateIndex int
	PDF           *models.FileRef
	Sections      []SectionInput
	ImageUploads  map[string]models.FileRef // keyed by original filename
	Published     *bool                     // nil means the default (published)
}

// CreateNewsletter validates the input, assembles the composite document and
// persists it.
func (s *NewsletterService) CreateNewsletter(ctx context.Context, input CreateNewsletterInput) (*models.Newsletter, error) {
	if s.newsletterRepo == nil {
		return nil, errors.New("newsletter repository not set")
	}

	if input.Title == "" {
		return nil, models.NewValidationError(models.CodeMissingTitle, "title is required")
	}

	newsletter := &models.Newsletter{
		Title:         input.Title,
		Description:   input.Description,
		TemplateIndex: input.TemplateIndex,
		PDF:           input.PDF,
		Sections:      models.Sections{},
		Published:     true,
	}
	if input.Published != nil {
		newsletter.Published = *input.Published
	}

	if len(input.Sections) > 0 {
		sections, err := resolveSections(input.Sections, input.ImageUploads)
		if err != nil {
			return nil, err
		}
		newsletter.Sections = sections
	}

	if input.PDF == nil && len(newsletter.Sections) == 0 {
		return nil, models.NewValidationError(models.CodeMissingContent,
			"a newsletter requires a PDF file or at least one section")
	}
	if newsletter.Published && !newsletter.HasContent() {
		return nil, models.NewValidationError(models.CodeUnpublishedNoFile,
			"a newsletter must have a file reference before it can be published")
	}

	if err := s.newsletterRepo.Create(ctx, newsletter); err != nil {
		return nil, err
	}

	return newsletter, nil
}

// GetNewsletter retrieves a newsletter by ID
func (s *NewsletterService) GetNewsletter(ctx context.Context, id uuid.UUID) (*models.Newsletter, error) {
	return s.newsletterRepo.GetByID(ctx, id)
}

// ListNewsletters retrieves newsletters newest first, optionally restricted
// to published ones for public consumers.
func (s *NewsletterService) ListNewsletters(ctx context.Context, publishedOnly bool) ([]*models.Newsletter, error) {
	return s.newsletterRepo.List(ctx, publishedOnly)
}

// UpdateNewsletterInput carries partial fields for an update. Nil pointers
// leave the current value untouched. A new PDF or a new sections payload
// replaces the previous one; the replaced artifacts are deleted after the
// record is persisted.
type UpdateNewsletterInput struct {
	Title         *string
	Description   *string
	TemplateIndex *int
	Published     *bool
	PDF           *models.FileRef
	Sections      []SectionInput
	ImageUploads  map[string]models.FileRef
}

// UpdateNewsletter applies a partial update to an existing newsletter
func (s *NewsletterService) UpdateNewsletter(ctx context.Context, id uuid.UUID, input UpdateNewsletterInput) (*models.Newsletter, error) {
	newsletter, err := s.newsletterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := newsletter.Artifacts()

	if input.Title != nil {
		if *input.Title == "" {
			return nil, models.NewValidationError(models.CodeMissingTitle, "title must not be empty")
		}
		newsletter.Title = *input.Title
	}
	if input.Description != nil {
		newsletter.Description = *input.Description
	}
	if input.TemplateIndex != nil {
		newsletter.TemplateIndex = *input.TemplateIndex
	}
	if input.Published != nil {
		newsletter.Published = *input.Published
	}
	if input.PDF != nil {
		newsletter.PDF = input.PDF
	}
	if input.Sections != nil {
		sections, err := resolveSections(input.Sections, input.ImageUploads)
		if err != nil {
			return nil, err
		}
		newsletter.Sections = sections
	}

	if newsletter.Published && !newsletter.HasContent() {
		return nil, models.NewValidationError(models.CodeUnpublishedNoFile,
			"a newsletter must have a file reference before it can be published")
	}

	if err := s.newsletterRepo.Update(ctx, newsletter); err != nil {
		return nil, err
	}

	// Replaced artifacts are removed immediately rather than retained;
	// failures are logged and never surfaced to the caller.
	s.removeArtifacts(ctx, replacedArtifacts(previous, newsletter.Artifacts()))

	return newsletter, nil
}

// DeleteNewsletter removes the database record, then best-effort deletes all
// associated file artifacts. An artifact deletion failure is logged, not
// fatal: the record is already gone from the listing.
func (s *NewsletterService) DeleteNewsletter(ctx context.Context, id uuid.UUID) error {
	newsletter, err := s.newsletterRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.newsletterRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.removeArtifacts(ctx, newsletter.Artifacts())

	return nil
}

// removeArtifacts deletes stored files, logging failures
func (s *NewsletterService) removeArtifacts(ctx context.Context, refs []models.FileRef) {
	if s.storage == nil {
		return
	}
	for _, ref := range refs {
		if err := s.storage.Delete(ctx, ref.StoragePath); err != nil {
			s.logger.Warn("failed to delete artifact",
				slog.String("path", ref.StoragePath),
				slog.String("error", err.Error()))
		}
	}
}

// replacedArtifacts returns the refs present before the update but absent
// after it.
func replacedArtifacts(before, after []models.FileRef) []models.FileRef {
	kept := map[string]bool{}
	for _, ref := range after {
		kept[ref.StoragePath] = true
	}

	var replaced []models.FileRef
	for _, ref := range before {
		if !kept[ref.StoragePath] {
			replaced = append(replaced, ref)
		}
	}
	return replaced
}
