package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/damagelog/internal/domain/models"
	"github.com/mamadbah2/damagelog/internal/service/intake"
)

const maxSubmissionBytes = 64 << 10

// IntakeService is what the JSON endpoint needs from the intake service.
type IntakeService interface {
	Sites(ctx context.Context) ([]string, error)
	Submit(ctx context.Context, sub models.Submission) (models.SubmissionRecord, error)
}

// IntakeHandler serves the intake endpoint: GET lists sites, POST records a
// damage report.
type IntakeHandler struct {
	svc    IntakeService
	logger *zap.Logger
}

// NewIntakeHandler constructs the HTTP handler adapter.
func NewIntakeHandler(svc IntakeService, logger *zap.Logger) *IntakeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeHandler{svc: svc, logger: logger}
}

// Sites responds with {"sites": [...]} or {"error": "..."}.
func (h *IntakeHandler) Sites(c *gin.Context) {
	sites, err := h.svc.Sites(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading sites", zap.Error(err))
		c.JSON(http.StatusBadGateway, models.SitesResponse{Error: "failed to read sites from sheet"})
		return
	}
	if sites == nil {
		sites = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

// Submit records one submission and responds with {"success": bool, "message"?}.
func (h *IntakeHandler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionBytes)

	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		h.logger.Warn("invalid submission payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.SubmissionResult{Message: "invalid payload"})
		return
	}

	if _, err := h.svc.Submit(c.Request.Context(), sub); err != nil {
		var invalid *intake.InvalidSubmissionError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusUnprocessableEntity, models.SubmissionResult{Message: invalid.Reason})
			return
		}
		h.logger.Error("failed recording submission", zap.Error(err))
		c.JSON(http.StatusBadGateway, models.SubmissionResult{Message: "failed to record submission"})
		return
	}

	c.JSON(http.StatusOK, models.SubmissionResult{Success: true})
}
