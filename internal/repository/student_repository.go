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

const studentColumns = `id, id_number, full_name, date_of_birth, class, age, personality, academic_strengths,
        overall_performance, family_background, financial_situation, aspirations, support_needed, achievements,
        is_sponsored, sponsor_name, sponsor_email, sponsor_phone, sponsor_notes, photo_url, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student, newest first. The public browsing page and
// the admin dashboard both consume the full roster.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students ORDER BY created_at DESC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1 LIMIT 1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByID reports whether the student id resolves to a row.
func (r *StudentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM students WHERE id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, id_number, full_name, date_of_birth, class, age, personality,
        academic_strengths, overall_performance, family_background, financial_situation, aspirations,
        support_needed, achievements, is_sponsored, sponsor_name, sponsor_email, sponsor_phone, sponsor_notes,
        photo_url, created_at, updated_at)
        VALUES (:id, :id_number, :full_name, :date_of_birth, :class, :age, :personality,
        :academic_strengths, :overall_performance, :family_background, :financial_situation, :aspirations,
        :support_needed, :achievements, :is_sponsored, :sponsor_name, :sponsor_email, :sponsor_phone, :sponsor_notes,
        :photo_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET id_number = :id_number, full_name = :full_name, date_of_birth = :date_of_birth,
        class = :class, age = :age, personality = :personality, academic_strengths = :academic_strengths,
        overall_performance = :overall_performance, family_background = :family_background,
        financial_situation = :financial_situation, aspirations = :aspirations, support_needed = :support_needed,
        achievements = :achievements, is_sponsored = :is_sponsored, sponsor_name = :sponsor_name,
        sponsor_email = :sponsor_email, sponsor_phone = :sponsor_phone, sponsor_notes = :sponsor_notes,
        photo_url = :photo_url, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student record.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
