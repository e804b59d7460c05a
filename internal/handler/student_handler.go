package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/service"
	"github.com/anointed-vessels/sponsorship-api/pkg/config"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
	"github.com/anointed-vessels/sponsorship-api/pkg/response"
	"github.com/anointed-vessels/sponsorship-api/pkg/storage"
)

const photoFormField = "image"

// StudentHandler exposes student CRUD and roster export endpoints. Photo
// uploads arrive as multipart alongside the form fields; JSON payloads with
// an external image link are accepted on the same routes.
type StudentHandler struct {
	studentService *service.StudentService
	exportService  *service.ExportService
	storage        *storage.LocalStorage
	uploads        config.UploadsConfig
	logger         *zap.Logger
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(studentService *service.StudentService, exportService *service.ExportService, store *storage.LocalStorage, uploads config.UploadsConfig, logger *zap.Logger) *StudentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentHandler{
		studentService: studentService,
		exportService:  exportService,
		storage:        store,
		uploads:        uploads,
		logger:         logger,
	}
}

// List godoc
// @Summary List all students
// @Description Public roster used by the sponsorship site
// @Tags students
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Student}
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Fetch a single student
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope{data=models.Student}
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.studentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create a student
// @Tags students
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Envelope{data=models.Student}
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student form payload"))
			return
		}
		photoURL, err := h.savePhoto(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		if photoURL != "" {
			req.PhotoURL = photoURL
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student payload"))
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("student created", zap.String("student_id", student.ID), zap.String("id_number", student.IDNumber))
	response.Created(c, student)
}

// Update godoc
// @Summary Update a student
// @Description Applies a partial update; omitted fields are left unchanged
// @Tags students
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope{data=models.Student}
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.UpdateStudentRequest
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student form payload"))
			return
		}
		photoURL, err := h.savePhoto(c)
		if err != nil {
			response.Error(c, err)
			return
		}
		if photoURL != "" {
			req.PhotoURL = &photoURL
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student payload"))
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	student, err := h.studentService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.removePhoto(student.PhotoURL)
	response.JSON(c, http.StatusOK, gin.H{"message": "student deleted"})
}

// Export godoc
// @Summary Export the student roster
// @Description Streams the roster as a CSV or PDF download
// @Tags students
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportFormatCSV))))
	download, err := h.exportService.Generate(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", download.Filename))
	c.Data(http.StatusOK, download.ContentType, download.Payload)
}

// savePhoto stores an uploaded photo, if any, and returns its public URL.
// A request without a photo part is not an error; the payload may carry an
// external image link instead.
func (h *StudentHandler) savePhoto(c *gin.Context) (string, error) {
	file, err := c.FormFile(photoFormField)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid photo upload")
	}
	if h.storage == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "photo storage is not configured")
	}
	if h.uploads.MaxFileSizeBytes > 0 && file.Size > h.uploads.MaxFileSizeBytes {
		return "", appErrors.Clone(appErrors.ErrPayloadTooLarge, "photo exceeds the maximum allowed size")
	}
	if !h.mimeAllowed(file) {
		return "", appErrors.Clone(appErrors.ErrValidation, "photo must be a jpeg, png, webp or gif image")
	}

	src, err := file.Open()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read photo upload")
	}
	defer src.Close() //nolint:errcheck

	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := uuid.NewString() + ext
	if _, err := h.storage.SaveStream(filename, src); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo upload")
	}

	return path.Join(h.uploads.PublicPath, filename), nil
}

func (h *StudentHandler) mimeAllowed(file *multipart.FileHeader) bool {
	if len(h.uploads.AllowedMIMEs) == 0 {
		return true
	}
	contentType := file.Header.Get("Content-Type")
	for _, allowed := range h.uploads.AllowedMIMEs {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

// removePhoto deletes a locally stored photo. External image links and
// missing files are ignored.
func (h *StudentHandler) removePhoto(photoURL string) {
	if h.storage == nil || h.uploads.PublicPath == "" {
		return
	}
	prefix := strings.TrimSuffix(h.uploads.PublicPath, "/") + "/"
	if !strings.HasPrefix(photoURL, prefix) {
		return
	}
	filename := strings.TrimPrefix(photoURL, prefix)
	if filename == "" || strings.Contains(filename, "..") {
		return
	}
	if err := h.storage.Delete(filename); err != nil {
		h.logger.Warn("failed to delete student photo", zap.String("photo", filename), zap.Error(err))
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
