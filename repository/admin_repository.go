package repository

import (
	"context"
	"errors"
	"fmt"

	"jumpstart-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository handles database operations for admin accounts
type AdminRepository struct {
	db *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create creates a new admin account
func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, admin.Email, admin.Name, admin.PasswordHash).
		Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	return nil
}

// GetByEmail retrieves an admin account by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	admin := &models.AdminUser{}
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM admin_users
		WHERE email = $1`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.Name,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAdminNotFound
		}
		return nil, fmt.Errorf("select admin by email: %w", err)
	}

	return admin, nil
}
