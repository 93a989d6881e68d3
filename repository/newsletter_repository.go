package repository

import (
	"context"
	"errors"
	"fmt"

	"jumpstart-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewsletterRepository handles database operations for newsletters
type NewsletterRepository struct {
	db *pgxpool.Pool
}

// NewNewsletterRepository creates a new newsletter repository
func NewNewsletterRepository(db *pgxpool.Pool) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

// Create creates a new newsletter record
func (r *NewsletterRepository) Create(ctx context.Context, newsletter *models.Newsletter) error {
	query := `
		INSERT INTO newsletters (
			title, description, template_index, pdf, sections, published
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, subscribers_notified, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		newsletter.Title,
		newsletter.Description,
		newsletter.TemplateIndex,
		newsletter.PDF,
		newsletter.Sections,
		newsletter.Published,
	).Scan(
		&newsletter.ID,
		&newsletter.SubscribersNotified,
		&newsletter.CreatedAt,
		&newsletter.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert newsletter: %w", err)
	}

	return nil
}

// GetByID retrieves a newsletter by ID
func (r *NewsletterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Newsletter, error) {
	newsletter := &models.Newsletter{}
	query := `
		SELECT id, title, description, template_index, pdf, sections,
			published, subscribers_notified, created_at, updated_at
		FROM newsletters
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&newsletter.ID,
		&newsletter.Title,
		&newsletter.Description,
		&newsletter.TemplateIndex,
		&newsletter.PDF,
		&newsletter.Sections,
		&newsletter.Published,
		&newsletter.SubscribersNotified,
		&newsletter.CreatedAt,
		&newsletter.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNewsletterNotFound
		}
		return nil, fmt.Errorf("select newsletter %s: %w", id, err)
	}

	return newsletter, nil
}

// List retrieves newsletters newest first. When publishedOnly is set,
// unpublished drafts are excluded for public-facing consumers.
func (r *NewsletterRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Newsletter, error) {
	query := `
		SELECT id, title, description, template_index, pdf, sections,
			published, subscribers_notified, created_at, updated_at
		FROM newsletters`
	if publishedOnly {
		query += `
		WHERE published = TRUE`
	}
	query += `
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list newsletters: %w", err)
	}
	defer rows.Close()

	newsletters := []*models.Newsletter{}
	for rows.Next() {
		newsletter := &models.Newsletter{}
		err := rows.Scan(
			&newsletter.ID,
			&newsletter.Title,
			&newsletter.Description,
			&newsletter.TemplateIndex,
			&newsletter.PDF,
			&newsletter.Sections,
			&newsletter.Published,
			&newsletter.SubscribersNotified,
			&newsletter.CreatedAt,
			&newsletter.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan newsletter: %w", err)
		}
		newsletters = append(newsletters, newsletter)
	}

	return newsletters, rows.Err()
}

// Update persists all mutable fields of a newsletter
func (r *NewsletterRepository) Update(ctx context.Context, newsletter *models.Newsletter) error {
	query := `
		UPDATE newsletters SET
			title = $2,
			description = $3,
			template_index = $4,
			pdf = $5,
			sections = $6,
			published = $7,
			subscribers_notified = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		newsletter.ID,
		newsletter.Title,
		newsletter.Description,
		newsletter.TemplateIndex,
		newsletter.PDF,
		newsletter.Sections,
		newsletter.Published,
		newsletter.SubscribersNotified,
	).Scan(&newsletter.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNewsletterNotFound
		}
		return fmt.Errorf("update newsletter %s: %w", newsletter.ID, err)
	}

	return nil
}

// MarkNotified records that subscriber notifications went out for a
// newsletter, guarding against double sends on a re-run.
func (r *NewsletterRepository) MarkNotified(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE newsletters SET subscribers_notified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark newsletter %s notified: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNewsletterNotFound
	}

	return nil
}

// Delete removes a newsletter record
func (r *NewsletterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM newsletters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete newsletter %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNewsletterNotFound
	}

	return nil
}
