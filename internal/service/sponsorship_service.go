package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
	"github.com/anointed-vessels/sponsorship-api/pkg/jobs"
	"github.com/anointed-vessels/sponsorship-api/pkg/mailer"
)

// Job types dispatched onto the email queue.
const (
	JobTypeSponsorConfirmation = "sponsor_confirmation"
	JobTypeAdminNotification   = "admin_notification"
)

type interestRepository interface {
	Create(ctx context.Context, interest *models.SponsorshipInterest) error
	List(ctx context.Context) ([]models.InterestDetail, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type emailQueue interface {
	Enqueue(job jobs.Job) error
}

type emailObserver interface {
	EmailEnqueued()
}

// SubmitInterestRequest is the public intake payload.
type SubmitInterestRequest struct {
	StudentID    string `json:"student_id" validate:"required"`
	SponsorName  string `json:"sponsor_name" validate:"required"`
	SponsorEmail string `json:"sponsor_email" validate:"required,email"`
	SponsorPhone string `json:"sponsor_phone" validate:"required"`
	Message      string `json:"message"`
}

// SubmitInterestResponse returns the created record's identifier.
type SubmitInterestResponse struct {
	InterestID string                `json:"interest_id"`
	Status     models.InterestStatus `json:"status"`
}

// SponsorshipService validates and persists sponsorship-interest
// submissions and dispatches notification emails off the request path.
type SponsorshipService struct {
	interests  interestRepository
	students   studentFinder
	queue      emailQueue
	metrics    emailObserver
	validator  *validator.Validate
	logger     *zap.Logger
	adminEmail string
}

// NewSponsorshipService constructs the sponsorship service. A nil queue
// disables email dispatch entirely.
func NewSponsorshipService(interests interestRepository, students studentFinder, queue emailQueue, metrics emailObserver, validate *validator.Validate, logger *zap.Logger, adminEmail string) *SponsorshipService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SponsorshipService{
		interests:  interests,
		students:   students,
		queue:      queue,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		adminEmail: adminEmail,
	}
}

// Submit records a sponsorship interest and queues notification emails.
// Email delivery never affects the persisted record or the response.
func (s *SponsorshipService) Submit(ctx context.Context, req SubmitInterestRequest) (*SubmitInterestResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sponsor name, email, phone and student id are required")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify student")
	}

	interest := &models.SponsorshipInterest{
		StudentID:    student.ID,
		SponsorName:  req.SponsorName,
		SponsorEmail: req.SponsorEmail,
		SponsorPhone: req.SponsorPhone,
		Message:      req.Message,
		Status:       models.InterestStatusPending,
	}
	if err := s.interests.Create(ctx, interest); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record sponsorship interest")
	}

	s.dispatchEmails(interest, student)

	return &SubmitInterestResponse{InterestID: interest.ID, Status: interest.Status}, nil
}

// List returns all recorded interests for the admin dashboard. Read-only;
// the status review workflow has no endpoint yet.
func (s *SponsorshipService) List(ctx context.Context) ([]models.InterestDetail, error) {
	interests, err := s.interests.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sponsorship interests")
	}
	if interests == nil {
		interests = []models.InterestDetail{}
	}
	return interests, nil
}

func (s *SponsorshipService) dispatchEmails(interest *models.SponsorshipInterest, student *models.Student) {
	if s.queue == nil {
		return
	}

	confirmation := mailer.SponsorConfirmation(interest.SponsorName, student.FullName)
	confirmation.To = interest.SponsorEmail
	if err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    JobTypeSponsorConfirmation,
		Payload: confirmation,
	}); err != nil {
		s.logger.Warn("failed to enqueue sponsor confirmation email", zap.Error(err), zap.String("interest_id", interest.ID))
	} else if s.metrics != nil {
		s.metrics.EmailEnqueued()
	}

	if s.adminEmail == "" {
		return
	}
	notification := mailer.AdminNotification(
		interest.SponsorName,
		interest.SponsorEmail,
		interest.SponsorPhone,
		student.FullName,
		student.IDNumber,
		interest.Message,
	)
	notification.To = s.adminEmail
	if err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    JobTypeAdminNotification,
		Payload: notification,
	}); err != nil {
		s.logger.Warn("failed to enqueue admin notification email", zap.Error(err), zap.String("interest_id", interest.ID))
	} else if s.metrics != nil {
		s.metrics.EmailEnqueued()
	}
}

// EmailJobHandler adapts a mail sender into a queue handler.
func EmailJobHandler(sender mailer.Sender, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(mailer.Message)
		if !ok {
			logger.Error("email job carried unexpected payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
			return nil
		}
		return sender.Send(msg)
	}
}
