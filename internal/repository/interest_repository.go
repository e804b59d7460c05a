package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
)

// InterestRepository manages persistence for sponsorship interests.
type InterestRepository struct {
	db *sqlx.DB
}

// NewInterestRepository constructs an InterestRepository.
func NewInterestRepository(db *sqlx.DB) *InterestRepository {
	return &InterestRepository{db: db}
}

// Create inserts a new sponsorship interest in pending status.
func (r *InterestRepository) Create(ctx context.Context, interest *models.SponsorshipInterest) error {
	if interest.ID == "" {
		interest.ID = uuid.NewString()
	}
	if interest.Status == "" {
		interest.Status = models.InterestStatusPending
	}
	now := time.Now().UTC()
	if interest.CreatedAt.IsZero() {
		interest.CreatedAt = now
	}
	interest.UpdatedAt = now
	const query = `INSERT INTO sponsorship_interests (id, student_id, sponsor_name, sponsor_email, sponsor_phone,
        message, status, created_at, updated_at)
        VALUES (:id, :student_id, :sponsor_name, :sponsor_email, :sponsor_phone, :message, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, interest); err != nil {
		return fmt.Errorf("create sponsorship interest: %w", err)
	}
	return nil
}

// List returns all interests joined with the referenced student, newest
// first. Deleting a student does not cascade here, so the join is LEFT and
// orphaned interests surface with an empty student name.
func (r *InterestRepository) List(ctx context.Context) ([]models.InterestDetail, error) {
	const query = `SELECT i.id, i.student_id, i.sponsor_name, i.sponsor_email, i.sponsor_phone, i.message,
        i.status, i.created_at, i.updated_at,
        COALESCE(s.full_name, '') AS student_name, COALESCE(s.id_number, '') AS student_id_number
        FROM sponsorship_interests i
        LEFT JOIN students s ON s.id = i.student_id
        ORDER BY i.created_at DESC`
	var interests []models.InterestDetail
	if err := r.db.SelectContext(ctx, &interests, query); err != nil {
		return nil, fmt.Errorf("list sponsorship interests: %w", err)
	}
	return interests, nil
}
