package handler

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
	"github.com/anointed-vessels/sponsorship-api/internal/service"
)

// Shared fakes for handler tests. Handlers wrap real services, so the fakes
// sit at the repository boundary.

type fakeAdminRepo struct {
	admin *models.Admin
}

func (f *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if f.admin == nil || f.admin.Email != email {
		return nil, sql.ErrNoRows
	}
	return f.admin, nil
}

func (f *fakeAdminRepo) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	if f.admin == nil || f.admin.ID != id {
		return nil, sql.ErrNoRows
	}
	return f.admin, nil
}

func (f *fakeAdminRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.admin != nil && f.admin.Email == email, nil
}

func (f *fakeAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = "a-new"
	f.admin = admin
	return nil
}

type fakeStudentRepo struct {
	students []models.Student
	byID     map[string]*models.Student
	deleted  []string
}

func (f *fakeStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = "s-new"
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeInterestRepo struct {
	created *models.SponsorshipInterest
	details []models.InterestDetail
}

func (f *fakeInterestRepo) Create(ctx context.Context, interest *models.SponsorshipInterest) error {
	interest.ID = "i-new"
	f.created = interest
	return nil
}

func (f *fakeInterestRepo) List(ctx context.Context) ([]models.InterestDetail, error) {
	return f.details, nil
}

func newTestAuthService(t *testing.T, repo *fakeAdminRepo) *service.AuthService {
	t.Helper()
	return service.NewAuthService(repo, validator.New(), zap.NewNop(), service.AuthConfig{
		AccessTokenSecret:   "test-secret",
		AccessTokenExpiry:   time.Hour,
		Issuer:              "test",
		RegistrationEnabled: true,
	})
}

func newTestStudentService(repo *fakeStudentRepo) *service.StudentService {
	return service.NewStudentService(repo, nil, nil, validator.New(), zap.NewNop(), time.Minute)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}
