package repository

import (
	"context"
	"errors"
	"fmt"

	"jumpstart-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriberRepository handles database operations for subscribers
type SubscriberRepository struct {
	db *pgxpool.Pool
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Create inserts a new subscriber. A duplicate email is reported as
// models.ErrDuplicateEmail via the unique constraint, without mutating
// state.
func (r *SubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	query := `
		INSERT INTO subscribers (email, active)
		VALUES ($1, $2)
		RETURNING id, subscribed_at`

	err := r.db.QueryRow(ctx, query, subscriber.Email, subscriber.Active).
		Scan(&subscriber.ID, &subscriber.SubscribedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}

	return nil
}

// GetByEmail retrieves a subscriber by email
func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{}
	query := `
		SELECT id, email, active, subscribed_at
		FROM subscribers
		WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&subscriber.ID,
		&subscriber.Email,
		&subscriber.Active,
		&subscriber.SubscribedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("select subscriber by email: %w", err)
	}

	return subscriber, nil
}

// ListActive retrieves all subscribers with the active flag set, for the
// notification dispatcher.
func (r *SubscriberRepository) ListActive(ctx context.Context) ([]*models.Subscriber, error) {
	query := `
		SELECT id, email, active, subscribed_at
		FROM subscribers
		WHERE active = TRUE
		ORDER BY subscribed_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := []*models.Subscriber{}
	for rows.Next() {
		subscriber := &models.Subscriber{}
		err := rows.Scan(
			&subscriber.ID,
			&subscriber.Email,
			&subscriber.Active,
			&subscriber.SubscribedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subscribers = append(subscribers, subscriber)
	}

	return subscribers, rows.Err()
}

// DeleteByID removes a subscriber by id
func (r *SubscriberRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscribers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscriber %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSubscriberNotFound
	}

	return nil
}

// DeleteByEmail removes a subscriber by email
func (r *SubscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscribers WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete subscriber by email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSubscriberNotFound
	}

	return nil
}
