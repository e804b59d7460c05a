package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
)

type staticLister struct {
	students []models.Student
}

func (s *staticLister) List(ctx context.Context) ([]models.Student, error) {
	return s.students, nil
}

func exportFixture() []models.Student {
	age := 9
	return []models.Student{
		{
			ID:           "s1",
			IDNumber:     "12345",
			FullName:     "Jane Student",
			DateOfBirth:  time.Date(2015, 4, 12, 0, 0, 0, 0, time.UTC),
			Class:        "Grade 4",
			Age:          &age,
			Achievements: pq.StringArray{"Top of class", "Spelling bee"},
			IsSponsored:  true,
			SponsorName:  "John Sponsor",
			PhotoURL:     "/uploads/jane.jpg",
			CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			UpdatedAt:    time.Date(2026, 1, 3, 3, 4, 5, 0, time.UTC),
		},
		{
			ID:          "s2",
			IDNumber:    "67890",
			FullName:    "Sam Student",
			DateOfBirth: time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC),
			Class:       "Grade 3",
		},
	}
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(&staticLister{students: exportFixture()}, nil, nil, zap.NewNop())

	download, err := svc.Generate(context.Background(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "students_export.csv", download.Filename)
	assert.Equal(t, "text/csv", download.ContentType)

	records, err := csv.NewReader(strings.NewReader(string(download.Payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeaders, records[0])

	jane := records[1]
	assert.Equal(t, "12345", jane[0])
	assert.Equal(t, "Jane Student", jane[1])
	assert.Equal(t, "2015-04-12", jane[2])
	assert.Equal(t, "9", jane[4])
	assert.Equal(t, "Top of class; Spelling bee", jane[12])
	assert.Equal(t, "Yes", jane[13])

	sam := records[2]
	assert.Equal(t, "", sam[4])
	assert.Equal(t, "No", sam[13])
}

func TestExportServiceDefaultsToCSV(t *testing.T) {
	svc := NewExportService(&staticLister{}, nil, nil, zap.NewNop())

	download, err := svc.Generate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "students_export.csv", download.Filename)
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(&staticLister{students: exportFixture()}, nil, nil, zap.NewNop())

	download, err := svc.Generate(context.Background(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "students_export.pdf", download.Filename)
	assert.Equal(t, "application/pdf", download.ContentType)
	assert.True(t, strings.HasPrefix(string(download.Payload), "%PDF"))
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&staticLister{}, nil, nil, zap.NewNop())

	_, err := svc.Generate(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
