package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/service"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
	"github.com/anointed-vessels/sponsorship-api/pkg/response"
)

// SponsorshipHandler exposes the public interest intake and the admin listing.
type SponsorshipHandler struct {
	sponsorshipService *service.SponsorshipService
	logger             *zap.Logger
}

// NewSponsorshipHandler constructs a SponsorshipHandler.
func NewSponsorshipHandler(sponsorshipService *service.SponsorshipService, logger *zap.Logger) *SponsorshipHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SponsorshipHandler{sponsorshipService: sponsorshipService, logger: logger}
}

// SubmitInterest godoc
// @Summary Submit a sponsorship interest
// @Description Records a visitor's interest in sponsoring a student and queues notification emails
// @Tags sponsorship
// @Accept json
// @Produce json
// @Param payload body service.SubmitInterestRequest true "Interest"
// @Success 201 {object} response.Envelope{data=service.SubmitInterestResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sponsorship/interest [post]
func (h *SponsorshipHandler) SubmitInterest(c *gin.Context) {
	var req service.SubmitInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "sponsor name, email, phone and student id are required"))
		return
	}

	result, err := h.sponsorshipService.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.logger.Info("sponsorship interest recorded", zap.String("interest_id", result.InterestID))
	response.Created(c, result)
}

// ListInterests godoc
// @Summary List sponsorship interests
// @Description Admin-only view of every recorded interest, newest first
// @Tags sponsorship
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.InterestDetail}
// @Failure 401 {object} response.Envelope
// @Router /sponsorship/interests [get]
func (h *SponsorshipHandler) ListInterests(c *gin.Context) {
	interests, err := h.sponsorshipService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interests)
}
