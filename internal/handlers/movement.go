package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/internal/middleware"
	"github.com/tmarchand/folio/internal/models"
	"github.com/tmarchand/folio/internal/services"
)

// MovementHandler serves the snapshot-backed movement view over a named range.
type MovementHandler struct {
	movementSvc *services.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementSvc *services.MovementService) *MovementHandler {
	return &MovementHandler{movementSvc: movementSvc}
}

// Movement handles GET /api/movement?range=7d|1m|3m|ytd|all
func (h *MovementHandler) Movement(c *gin.Context) {
	rangeKey := c.DefaultQuery("range", "7d")

	resp, err := h.movementSvc.Movement(c.Request.Context(), middleware.UserID(c), rangeKey)
	if err != nil {
		if errors.Is(err, services.ErrUnknownRange) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: err.Error()})
			return
		}
		log.Errorf("movement query failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
