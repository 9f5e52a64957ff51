package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/internal/models"
	"github.com/tmarchand/folio/internal/scheduler"
	"github.com/tmarchand/folio/internal/services"
)

// CaptureHandler exposes the manual capture trigger and the scheduler status.
type CaptureHandler struct {
	captureSvc *services.CaptureService
	job        *scheduler.Job
}

// NewCaptureHandler creates a new CaptureHandler
func NewCaptureHandler(captureSvc *services.CaptureService, job *scheduler.Job) *CaptureHandler {
	return &CaptureHandler{captureSvc: captureSvc, job: job}
}

// Capture handles POST /api/capture-prices: runs a capture cycle immediately,
// market hours or not.
func (h *CaptureHandler) Capture(c *gin.Context) {
	captured, err := h.captureSvc.CaptureNow(c.Request.Context())
	if err != nil {
		log.Errorf("manual capture failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"captured": captured, "message": "Price capture complete"})
}

// SchedulerStatus handles GET /api/scheduler-status
func (h *CaptureHandler) SchedulerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.job.Status())
}
