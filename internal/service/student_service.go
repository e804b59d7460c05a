package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
)

const (
	studentListCacheKey = "students:list"

	minStudentAge = 3
	maxStudentAge = 20

	dateLayout = "2006-01-02"
)

var idNumberPattern = regexp.MustCompile(`^\d+$`)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type studentCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type cacheObserver interface {
	CacheHit()
	CacheMiss()
}

// CreateStudentRequest holds the payload for creating students. String
// fields double as multipart form fields, so age and date arrive as text.
type CreateStudentRequest struct {
	IDNumber           string `json:"id_number" form:"id_number" validate:"required,numeric"`
	FullName           string `json:"name" form:"name" validate:"required"`
	DateOfBirth        string `json:"date_of_birth" form:"date_of_birth" validate:"required"`
	Class              string `json:"class" form:"class" validate:"required"`
	Age                string `json:"age" form:"age"`
	Personality        string `json:"personality" form:"personality"`
	AcademicStrengths  string `json:"academic_strengths" form:"academic_strengths"`
	OverallPerformance string `json:"overall_performance" form:"overall_performance"`
	FamilyBackground   string `json:"family_background" form:"family_background"`
	FinancialSituation string `json:"financial_situation" form:"financial_situation"`
	Aspirations        string `json:"aspirations" form:"aspirations"`
	SupportNeeded      string `json:"support_needed" form:"support_needed"`
	Achievements       string `json:"achievements" form:"achievements"`
	IsSponsored        bool   `json:"is_sponsored" form:"is_sponsored"`
	SponsorName        string `json:"sponsor_name" form:"sponsor_name"`
	SponsorEmail       string `json:"sponsor_email" form:"sponsor_email"`
	SponsorPhone       string `json:"sponsor_phone" form:"sponsor_phone"`
	SponsorNotes       string `json:"sponsor_notes" form:"sponsor_notes"`
	PhotoURL           string `json:"image_url" form:"image_url"`
}

// UpdateStudentRequest is an explicit patch: nil means "leave unchanged",
// any non-nil value (including empty string or false) is applied. This
// replaces the old non-empty-only merge, under which a legitimate
// empty-string update was indistinguishable from "no change".
type UpdateStudentRequest struct {
	IDNumber           *string `json:"id_number" form:"id_number"`
	FullName           *string `json:"name" form:"name"`
	DateOfBirth        *string `json:"date_of_birth" form:"date_of_birth"`
	Class              *string `json:"class" form:"class"`
	Age                *string `json:"age" form:"age"`
	Personality        *string `json:"personality" form:"personality"`
	AcademicStrengths  *string `json:"academic_strengths" form:"academic_strengths"`
	OverallPerformance *string `json:"overall_performance" form:"overall_performance"`
	FamilyBackground   *string `json:"family_background" form:"family_background"`
	FinancialSituation *string `json:"financial_situation" form:"financial_situation"`
	Aspirations        *string `json:"aspirations" form:"aspirations"`
	SupportNeeded      *string `json:"support_needed" form:"support_needed"`
	Achievements       *string `json:"achievements" form:"achievements"`
	IsSponsored        *bool   `json:"is_sponsored" form:"is_sponsored"`
	SponsorName        *string `json:"sponsor_name" form:"sponsor_name"`
	SponsorEmail       *string `json:"sponsor_email" form:"sponsor_email"`
	SponsorPhone       *string `json:"sponsor_phone" form:"sponsor_phone"`
	SponsorNotes       *string `json:"sponsor_notes" form:"sponsor_notes"`
	PhotoURL           *string `json:"image_url" form:"image_url"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	cache     studentCache
	metrics   cacheObserver
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, cache studentCache, metrics cacheObserver, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &StudentService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns every student, served from the cache when warm.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	if s.cache != nil {
		var cached []models.Student
		if err := s.cache.Get(ctx, studentListCacheKey, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.CacheHit()
			}
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("student list cache read failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.CacheMiss()
		}
	}

	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if students == nil {
		students = []models.Student{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, studentListCacheKey, students, s.cacheTTL); err != nil {
			s.logger.Warn("student list cache write failed", zap.Error(err))
		}
	}
	return students, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student. The photo URL must already be populated,
// either from an upload or an explicit link.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	req.trim()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, firstViolation(err))
	}
	if req.PhotoURL == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "photo url is required")
	}
	if !idNumberPattern.MatchString(req.IDNumber) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id number must contain digits only")
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date of birth must use YYYY-MM-DD")
	}

	age, err := parseAge(req.Age)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	student := &models.Student{
		IDNumber:           req.IDNumber,
		FullName:           req.FullName,
		DateOfBirth:        dob,
		Class:              req.Class,
		Age:                age,
		Personality:        req.Personality,
		AcademicStrengths:  req.AcademicStrengths,
		OverallPerformance: req.OverallPerformance,
		FamilyBackground:   req.FamilyBackground,
		FinancialSituation: req.FinancialSituation,
		Aspirations:        req.Aspirations,
		SupportNeeded:      req.SupportNeeded,
		Achievements:       splitAchievements(req.Achievements),
		IsSponsored:        req.IsSponsored,
		SponsorName:        req.SponsorName,
		SponsorEmail:       req.SponsorEmail,
		SponsorPhone:       req.SponsorPhone,
		SponsorNotes:       req.SponsorNotes,
		PhotoURL:           req.PhotoURL,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.invalidate(ctx)
	return student, nil
}

// Update applies an explicit patch to an existing student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if req.IDNumber != nil {
		trimmed := strings.TrimSpace(*req.IDNumber)
		if !idNumberPattern.MatchString(trimmed) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "id number must contain digits only")
		}
		student.IDNumber = trimmed
	}
	if req.FullName != nil {
		student.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, strings.TrimSpace(*req.DateOfBirth))
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date of birth must use YYYY-MM-DD")
		}
		student.DateOfBirth = dob
	}
	if req.Class != nil {
		student.Class = strings.TrimSpace(*req.Class)
	}
	if req.Age != nil {
		age, err := parseAge(strings.TrimSpace(*req.Age))
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		student.Age = age
	}
	applyString(&student.Personality, req.Personality)
	applyString(&student.AcademicStrengths, req.AcademicStrengths)
	applyString(&student.OverallPerformance, req.OverallPerformance)
	applyString(&student.FamilyBackground, req.FamilyBackground)
	applyString(&student.FinancialSituation, req.FinancialSituation)
	applyString(&student.Aspirations, req.Aspirations)
	applyString(&student.SupportNeeded, req.SupportNeeded)
	if req.Achievements != nil {
		student.Achievements = splitAchievements(*req.Achievements)
	}
	if req.IsSponsored != nil {
		student.IsSponsored = *req.IsSponsored
	}
	applyString(&student.SponsorName, req.SponsorName)
	applyString(&student.SponsorEmail, req.SponsorEmail)
	applyString(&student.SponsorPhone, req.SponsorPhone)
	applyString(&student.SponsorNotes, req.SponsorNotes)
	if req.PhotoURL != nil {
		trimmed := strings.TrimSpace(*req.PhotoURL)
		if trimmed == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "photo url is required")
		}
		student.PhotoURL = trimmed
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.invalidate(ctx)
	return student, nil
}

// Delete removes a student record and returns the removed record so the
// caller can clean up a locally stored photo.
func (s *StudentService) Delete(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidate(ctx)
	return student, nil
}

func (s *StudentService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, studentListCacheKey); err != nil {
		s.logger.Warn("student list cache invalidation failed", zap.Error(err))
	}
}

func (r *CreateStudentRequest) trim() {
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	r.FullName = strings.TrimSpace(r.FullName)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Class = strings.TrimSpace(r.Class)
	r.Age = strings.TrimSpace(r.Age)
	r.Personality = strings.TrimSpace(r.Personality)
	r.AcademicStrengths = strings.TrimSpace(r.AcademicStrengths)
	r.OverallPerformance = strings.TrimSpace(r.OverallPerformance)
	r.FamilyBackground = strings.TrimSpace(r.FamilyBackground)
	r.FinancialSituation = strings.TrimSpace(r.FinancialSituation)
	r.Aspirations = strings.TrimSpace(r.Aspirations)
	r.SupportNeeded = strings.TrimSpace(r.SupportNeeded)
	r.SponsorName = strings.TrimSpace(r.SponsorName)
	r.SponsorEmail = strings.TrimSpace(r.SponsorEmail)
	r.SponsorPhone = strings.TrimSpace(r.SponsorPhone)
	r.SponsorNotes = strings.TrimSpace(r.SponsorNotes)
	r.PhotoURL = strings.TrimSpace(r.PhotoURL)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// parseAge converts the textual age field. Empty input leaves the age unset.
func parseAge(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "age must be a number")
	}
	if age < minStudentAge || age > maxStudentAge {
		return nil, appErrors.Clone(appErrors.ErrValidation, "age must be between 3 and 20")
	}
	return &age, nil
}

// splitAchievements turns a comma-separated string into a trimmed list,
// dropping empty entries.
func splitAchievements(raw string) pq.StringArray {
	if strings.TrimSpace(raw) == "" {
		return pq.StringArray{}
	}
	parts := strings.Split(raw, ",")
	result := make(pq.StringArray, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// firstViolation surfaces the first schema violation in a readable form.
func firstViolation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0]
		switch field.Tag() {
		case "required":
			return strings.ToLower(field.Field()) + " is required"
		case "numeric":
			return strings.ToLower(field.Field()) + " must contain digits only"
		default:
			return strings.ToLower(field.Field()) + " is invalid"
		}
	}
	return "invalid student payload"
}
