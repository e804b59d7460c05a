package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/models"
	"github.com/anointed-vessels/sponsorship-api/internal/service"
)

func newTestSponsorshipHandler(interests *fakeInterestRepo, students *fakeStudentRepo) *SponsorshipHandler {
	svc := service.NewSponsorshipService(interests, students, nil, nil, validator.New(), zap.NewNop(), "")
	return NewSponsorshipHandler(svc, zap.NewNop())
}

func TestSponsorshipHandlerSubmit(t *testing.T) {
	interests := &fakeInterestRepo{}
	students := &fakeStudentRepo{byID: map[string]*models.Student{
		"s1": {ID: "s1", FullName: "Jane Student"},
	}}
	h := newTestSponsorshipHandler(interests, students)

	c, w := newTestContext(t)
	body, _ := json.Marshal(service.SubmitInterestRequest{
		StudentID:    "s1",
		SponsorName:  "John Sponsor",
		SponsorEmail: "john@example.com",
		SponsorPhone: "+123456789",
	})
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/sponsorship/interest", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.SubmitInterest(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, interests.created)
	assert.Equal(t, "s1", interests.created.StudentID)
	assert.Equal(t, models.InterestStatusPending, interests.created.Status)
}

func TestSponsorshipHandlerSubmitBadPayload(t *testing.T) {
	h := newTestSponsorshipHandler(&fakeInterestRepo{}, &fakeStudentRepo{})

	c, w := newTestContext(t)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/sponsorship/interest", bytes.NewReader([]byte("nope")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.SubmitInterest(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSponsorshipHandlerSubmitUnknownStudent(t *testing.T) {
	h := newTestSponsorshipHandler(&fakeInterestRepo{}, &fakeStudentRepo{})

	c, w := newTestContext(t)
	body, _ := json.Marshal(service.SubmitInterestRequest{
		StudentID:    "missing",
		SponsorName:  "John Sponsor",
		SponsorEmail: "john@example.com",
		SponsorPhone: "+123456789",
	})
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/sponsorship/interest", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.SubmitInterest(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSponsorshipHandlerListInterests(t *testing.T) {
	interests := &fakeInterestRepo{details: []models.InterestDetail{{
		SponsorshipInterest: models.SponsorshipInterest{ID: "i1", SponsorName: "John Sponsor"},
		StudentName:         "Jane Student",
	}}}
	h := newTestSponsorshipHandler(interests, &fakeStudentRepo{})

	c, w := newTestContext(t)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/sponsorship/interests", nil)

	h.ListInterests(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.InterestDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Jane Student", envelope.Data[0].StudentName)
}
