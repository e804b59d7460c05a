package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
)

// AdminRepository provides database access for administrator accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByEmail returns an admin by email address.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const query = `SELECT id, email, password_hash, full_name, created_at, updated_at FROM admins WHERE email = $1 LIMIT 1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return &admin, nil
}

// FindByID returns an admin by identifier.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	const query = `SELECT id, email, password_hash, full_name, created_at, updated_at FROM admins WHERE id = $1 LIMIT 1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return &admin, nil
}

// ExistsByEmail checks whether an admin with the given email already exists.
func (r *AdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM admins WHERE email = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check admin email: %w", err)
	}
	return true, nil
}

// Create inserts a new admin record.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now
	const query = `INSERT INTO admins (id, email, password_hash, full_name, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :full_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
