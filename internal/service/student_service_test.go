package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
)

type fakeStudentRepo struct {
	students  []models.Student
	byID      map[string]*models.Student
	created   *models.Student
	updated   *models.Student
	deletedID string
	listErr   error
}

func (f *fakeStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	return f.students, f.listErr
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = "s-new"
	f.created = student
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	f.updated = student
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	return nil
}

type fakeCache struct {
	entries map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func newStudentService(repo *fakeStudentRepo, cache *fakeCache) *StudentService {
	if cache == nil {
		return NewStudentService(repo, nil, nil, validator.New(), zap.NewNop(), time.Minute)
	}
	return NewStudentService(repo, cache, nil, validator.New(), zap.NewNop(), time.Minute)
}

func validCreateRequest() CreateStudentRequest {
	return CreateStudentRequest{
		IDNumber:     "12345",
		FullName:     "Jane Student",
		DateOfBirth:  "2015-04-12",
		Class:        "Grade 4",
		Age:          "10",
		Achievements: "Top of class, Spelling bee winner",
		PhotoURL:     "/uploads/jane.jpg",
	}
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := newStudentService(repo, nil)

	student, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "s-new", student.ID)
	assert.Equal(t, "12345", student.IDNumber)
	require.NotNil(t, student.Age)
	assert.Equal(t, 10, *student.Age)
	assert.Equal(t, []string{"Top of class", "Spelling bee winner"}, []string(student.Achievements))
	assert.Equal(t, "2015-04-12", student.DateOfBirth.Format("2006-01-02"))
}

func TestStudentServiceCreateMissingPhoto(t *testing.T) {
	svc := newStudentService(&fakeStudentRepo{}, nil)
	req := validCreateRequest()
	req.PhotoURL = ""

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "photo url is required", appErr.Message)
}

func TestStudentServiceCreateRejectsNonNumericID(t *testing.T) {
	svc := newStudentService(&fakeStudentRepo{}, nil)
	req := validCreateRequest()
	req.IDNumber = "12a45"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateRejectsBadDate(t *testing.T) {
	svc := newStudentService(&fakeStudentRepo{}, nil)
	req := validCreateRequest()
	req.DateOfBirth = "12/04/2015"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateRejectsAgeOutOfRange(t *testing.T) {
	svc := newStudentService(&fakeStudentRepo{}, nil)
	req := validCreateRequest()
	req.Age = "25"

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "age must be between 3 and 20", appErr.Message)
}

func TestStudentServiceCreateAllowsEmptyAge(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := newStudentService(repo, nil)
	req := validCreateRequest()
	req.Age = ""

	student, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, student.Age)
}

func TestStudentServiceUpdatePatchSemantics(t *testing.T) {
	existing := &models.Student{
		ID:          "s1",
		IDNumber:    "100",
		FullName:    "Old Name",
		Class:       "Grade 2",
		SponsorName: "Old Sponsor",
		IsSponsored: true,
		PhotoURL:    "/uploads/old.jpg",
	}
	repo := &fakeStudentRepo{byID: map[string]*models.Student{"s1": existing}}
	svc := newStudentService(repo, nil)

	name := "New Name"
	emptySponsor := ""
	notSponsored := false
	updated, err := svc.Update(context.Background(), "s1", UpdateStudentRequest{
		FullName:    &name,
		SponsorName: &emptySponsor,
		IsSponsored: &notSponsored,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
	// Explicit empty string clears the field; omitted fields stay put.
	assert.Equal(t, "", updated.SponsorName)
	assert.False(t, updated.IsSponsored)
	assert.Equal(t, "Grade 2", updated.Class)
	assert.Equal(t, "/uploads/old.jpg", updated.PhotoURL)
}

func TestStudentServiceUpdateRejectsEmptyPhoto(t *testing.T) {
	existing := &models.Student{ID: "s1", PhotoURL: "/uploads/old.jpg"}
	repo := &fakeStudentRepo{byID: map[string]*models.Student{"s1": existing}}
	svc := newStudentService(repo, nil)

	empty := ""
	_, err := svc.Update(context.Background(), "s1", UpdateStudentRequest{PhotoURL: &empty})
	require.Error(t, err)
	assert.Equal(t, "photo url is required", appErrors.FromError(err).Message)
}

func TestStudentServiceUpdateNotFound(t *testing.T) {
	svc := newStudentService(&fakeStudentRepo{}, nil)

	_, err := svc.Update(context.Background(), "missing", UpdateStudentRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceListUsesCache(t *testing.T) {
	repo := &fakeStudentRepo{students: []models.Student{{ID: "s1", FullName: "Jane"}}}
	cache := newFakeCache()
	svc := newStudentService(repo, cache)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second call is served from the cache even if the repo changes.
	repo.students = nil
	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestStudentServiceMutationsInvalidateCache(t *testing.T) {
	existing := &models.Student{ID: "s1", PhotoURL: "/uploads/old.jpg"}
	repo := &fakeStudentRepo{byID: map[string]*models.Student{"s1": existing}}
	cache := newFakeCache()
	svc := newStudentService(repo, cache)

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Contains(t, cache.entries, studentListCacheKey)

	_, err = svc.Delete(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotContains(t, cache.entries, studentListCacheKey)
	assert.Equal(t, "s1", repo.deletedID)
}

func TestStudentServiceDeleteReturnsRemovedStudent(t *testing.T) {
	existing := &models.Student{ID: "s1", PhotoURL: "/uploads/photo.jpg"}
	repo := &fakeStudentRepo{byID: map[string]*models.Student{"s1": existing}}
	svc := newStudentService(repo, nil)

	removed, err := svc.Delete(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/photo.jpg", removed.PhotoURL)
}

func TestStudentServiceDeleteNotFound(t *testing.T) {
	svc := newStudentService(&fakeStudentRepo{}, nil)

	_, err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSplitAchievements(t *testing.T) {
	assert.Empty(t, splitAchievements("  "))
	assert.Equal(t, []string{"A", "B"}, []string(splitAchievements(" A , B ,")))
}
