package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
	"github.com/anointed-vessels/sponsorship-api/internal/service"
	"github.com/anointed-vessels/sponsorship-api/pkg/config"
	"github.com/anointed-vessels/sponsorship-api/pkg/response"
	"github.com/anointed-vessels/sponsorship-api/pkg/storage"
)

func newTestStudentHandler(t *testing.T, repo *fakeStudentRepo) *StudentHandler {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	studentSvc := newTestStudentService(repo)
	exportSvc := service.NewExportService(studentSvc, nil, nil, zap.NewNop())
	uploads := config.UploadsConfig{
		PublicPath:       "/uploads",
		MaxFileSizeBytes: 10 * 1024 * 1024,
		AllowedMIMEs:     []string{"image/jpeg", "image/png"},
	}
	return NewStudentHandler(studentSvc, exportSvc, store, uploads, zap.NewNop())
}

func TestStudentHandlerList(t *testing.T) {
	repo := &fakeStudentRepo{students: []models.Student{{ID: "s1", FullName: "Jane Student"}}}
	h := newTestStudentHandler(t, repo)

	c, w := newTestContext(t)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/students", nil)

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.Student `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Jane Student", envelope.Data[0].FullName)
}

func TestStudentHandlerCreateJSON(t *testing.T) {
	repo := &fakeStudentRepo{}
	h := newTestStudentHandler(t, repo)

	c, w := newTestContext(t)
	payload := map[string]interface{}{
		"id_number":     "12345",
		"name":          "Jane Student",
		"date_of_birth": "2015-04-12",
		"class":         "Grade 4",
		"image_url":     "https://example.com/jane.jpg",
	}
	body, _ := json.Marshal(payload)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/students", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.students, 1)
	assert.Equal(t, "12345", repo.students[0].IDNumber)
}

func TestStudentHandlerCreateValidationError(t *testing.T) {
	h := newTestStudentHandler(t, &fakeStudentRepo{})

	c, w := newTestContext(t)
	payload := map[string]interface{}{
		"name": "Jane Student",
	}
	body, _ := json.Marshal(payload)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/students", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestStudentHandlerUpdateNotFound(t *testing.T) {
	h := newTestStudentHandler(t, &fakeStudentRepo{})

	c, w := newTestContext(t)
	body, _ := json.Marshal(map[string]interface{}{"name": "New Name"})
	c.Request, _ = http.NewRequest(http.MethodPut, "/api/students/missing", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "missing"})

	h.Update(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudentHandlerDelete(t *testing.T) {
	repo := &fakeStudentRepo{byID: map[string]*models.Student{
		"s1": {ID: "s1", PhotoURL: "https://example.com/external.jpg"},
	}}
	h := newTestStudentHandler(t, repo)

	c, w := newTestContext(t)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/students/s1", nil)
	c.Params = append(c.Params, gin.Param{Key: "id", Value: "s1"})

	h.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"s1"}, repo.deleted)
}

func TestStudentHandlerExportCSV(t *testing.T) {
	age := 9
	repo := &fakeStudentRepo{students: []models.Student{{
		ID:          "s1",
		IDNumber:    "12345",
		FullName:    "Jane Student",
		DateOfBirth: time.Date(2015, 4, 12, 0, 0, 0, 0, time.UTC),
		Class:       "Grade 4",
		Age:         &age,
	}}}
	h := newTestStudentHandler(t, repo)

	c, w := newTestContext(t)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/students/export?format=csv", nil)

	h.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=students_export.csv", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Jane Student")
}

func TestStudentHandlerExportUnknownFormat(t *testing.T) {
	h := newTestStudentHandler(t, &fakeStudentRepo{})

	c, w := newTestContext(t)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/students/export?format=xlsx", nil)

	h.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
