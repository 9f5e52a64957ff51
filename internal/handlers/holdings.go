package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/internal/middleware"
	"github.com/tmarchand/folio/internal/models"
	"github.com/tmarchand/folio/internal/repository"
	"github.com/tmarchand/folio/internal/services"
)

// HoldingHandler handles the holdings CRUD and history endpoints
type HoldingHandler struct {
	portfolioSvc *services.PortfolioService
}

// NewHoldingHandler creates a new HoldingHandler
func NewHoldingHandler(portfolioSvc *services.PortfolioService) *HoldingHandler {
	return &HoldingHandler{portfolioSvc: portfolioSvc}
}

// List handles GET /api/holdings
func (h *HoldingHandler) List(c *gin.Context) {
	enriched, stats, err := h.portfolioSvc.ListEnriched(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		log.Errorf("list holdings failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"holdings": enriched, "stats": stats})
}

// Create handles POST /api/holdings
func (h *HoldingHandler) Create(c *gin.Context) {
	var req models.HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	rowID, err := h.portfolioSvc.CreateHolding(c.Request.Context(), req.ToInput(middleware.UserID(c)))
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: err.Error()})
			return
		}
		log.Errorf("create holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": rowID, "message": "Holding created successfully"})
}

// Update handles PUT /api/holdings/:id
func (h *HoldingHandler) Update(c *gin.Context) {
	rowID, ok := parseRowID(c)
	if !ok {
		return
	}
	var req models.HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	newRowID, err := h.portfolioSvc.UpdateHolding(c.Request.Context(), rowID, req.ToInput(middleware.UserID(c)))
	if err != nil {
		respondHoldingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": newRowID, "message": "Holding updated successfully"})
}

// Delete handles DELETE /api/holdings/:id
func (h *HoldingHandler) Delete(c *gin.Context) {
	rowID, ok := parseRowID(c)
	if !ok {
		return
	}
	if err := h.portfolioSvc.DeleteHolding(c.Request.Context(), rowID); err != nil {
		respondHoldingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Holding deleted successfully"})
}

// History handles GET /api/holdings/:id/history
func (h *HoldingHandler) History(c *gin.Context) {
	rowID, ok := parseRowID(c)
	if !ok {
		return
	}
	history, err := h.portfolioSvc.HistoryByRowID(c.Request.Context(), rowID)
	if err != nil {
		respondHoldingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func parseRowID(c *gin.Context) (int64, bool) {
	rowID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: "invalid holding ID"})
		return 0, false
	}
	return rowID, true
}

func respondHoldingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrHoldingNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "holding not found"})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: err.Error()})
	default:
		log.Errorf("holding operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
	}
}
