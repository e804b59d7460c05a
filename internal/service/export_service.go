package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
	"github.com/anointed-vessels/sponsorship-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// Export column order is part of the download contract consumed by the
// school's spreadsheet workflow; do not reorder.
var exportHeaders = []string{
	"ID Number",
	"Name",
	"Date of Birth",
	"Class",
	"Age",
	"Personality",
	"Academic Strengths",
	"Overall Performance",
	"Family Background",
	"Financial Situation",
	"Aspirations",
	"Support Needed",
	"Achievements",
	"Is Sponsored",
	"Sponsor Name",
	"Sponsor Email",
	"Sponsor Phone",
	"Sponsor Notes",
	"Image URL",
	"Created At",
	"Updated At",
}

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportDownload is a rendered student roster ready for download.
type ExportDownload struct {
	Payload     []byte
	Filename    string
	ContentType string
}

// ExportService renders the full student roster as a downloadable file.
type ExportService struct {
	students studentLister
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(students studentLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{students: students, csv: csv, pdf: pdf, logger: logger}
}

// Generate builds the roster dataset and renders it in the requested format.
func (s *ExportService) Generate(ctx context.Context, format ExportFormat) (*ExportDownload, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students for export")
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(students))}
	for _, student := range students {
		dataset.Rows = append(dataset.Rows, exportRow(student))
	}

	switch format {
	case ExportFormatCSV, "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportDownload{Payload: payload, Filename: "students_export.csv", ContentType: "text/csv"}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Student Records")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportDownload{Payload: payload, Filename: "students_export.pdf", ContentType: "application/pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func exportRow(s models.Student) map[string]string {
	age := ""
	if s.Age != nil {
		age = strconv.Itoa(*s.Age)
	}
	sponsored := "No"
	if s.IsSponsored {
		sponsored = "Yes"
	}
	return map[string]string{
		"ID Number":           s.IDNumber,
		"Name":                s.FullName,
		"Date of Birth":       s.DateOfBirth.Format("2006-01-02"),
		"Class":               s.Class,
		"Age":                 age,
		"Personality":         s.Personality,
		"Academic Strengths":  s.AcademicStrengths,
		"Overall Performance": s.OverallPerformance,
		"Family Background":   s.FamilyBackground,
		"Financial Situation": s.FinancialSituation,
		"Aspirations":         s.Aspirations,
		"Support Needed":      s.SupportNeeded,
		"Achievements":        strings.Join(s.Achievements, "; "),
		"Is Sponsored":        sponsored,
		"Sponsor Name":        s.SponsorName,
		"Sponsor Email":       s.SponsorEmail,
		"Sponsor Phone":       s.SponsorPhone,
		"Sponsor Notes":       s.SponsorNotes,
		"Image URL":           s.PhotoURL,
		"Created At":          s.CreatedAt.UTC().Format(time.RFC3339),
		"Updated At":          s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
