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

// HistoryHandler serves the reconstructed portfolio value series and the
// per-account-type breakdown.
type HistoryHandler struct {
	historySvc   *services.HistoryService
	portfolioSvc *services.PortfolioService
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(historySvc *services.HistoryService, portfolioSvc *services.PortfolioService) *HistoryHandler {
	return &HistoryHandler{historySvc: historySvc, portfolioSvc: portfolioSvc}
}

// PortfolioHistory handles GET /api/portfolio-history?granularity=&span=
func (h *HistoryHandler) PortfolioHistory(c *gin.Context) {
	granularity := c.Query("granularity")
	span := intQuery(c, "span", defaultSpan(granularity))

	resp, err := h.historySvc.History(c.Request.Context(), middleware.UserID(c), granularity, span)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: err.Error()})
			return
		}
		log.Errorf("portfolio history failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ByAccountType handles GET /api/portfolio-by-account-type
func (h *HistoryHandler) ByAccountType(c *gin.Context) {
	breakdown, err := h.portfolioSvc.ByAccountType(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		log.Errorf("account type breakdown failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

func defaultSpan(granularity string) int {
	if granularity == "hourly" {
		return 24
	}
	return 30
}
