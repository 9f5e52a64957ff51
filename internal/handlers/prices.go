package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/internal/models"
	"github.com/tmarchand/folio/internal/repository"
	"github.com/tmarchand/folio/internal/services"
)

// PriceHandler handles manual price fetches and per-ticker history reads
type PriceHandler struct {
	captureSvc *services.CaptureService
	priceRepo  *repository.PriceRepository
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(captureSvc *services.CaptureService, priceRepo *repository.PriceRepository) *PriceHandler {
	return &PriceHandler{captureSvc: captureSvc, priceRepo: priceRepo}
}

// Fetch handles POST /api/fetch-price: resolves a quote and records it.
func (h *PriceHandler) Fetch(c *gin.Context) {
	var req models.PriceFetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "bad_request", Message: "ticker is required"})
		return
	}

	quote, err := h.captureSvc.FetchAndRecord(c.Request.Context(), req.Ticker)
	if err != nil {
		log.Warnf("fetch price for %s failed: %v", req.Ticker, err)
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not_found", Message: "could not fetch price for " + req.Ticker})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": quote.Symbol, "price": quote.Price, "name": quote.DisplayName})
}

// DailyHistory handles GET /api/price-history/:ticker
func (h *PriceHandler) DailyHistory(c *gin.Context) {
	days := intQuery(c, "days", 30)
	samples, err := h.priceRepo.QueryDaily(c.Request.Context(), c.Param("ticker"), days)
	if err != nil {
		log.Errorf("price history query failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": c.Param("ticker"), "history": samples})
}

// HourlyHistory handles GET /api/price-history/:ticker/hourly
func (h *PriceHandler) HourlyHistory(c *gin.Context) {
	hours := intQuery(c, "hours", 24)
	samples, err := h.priceRepo.QueryHourly(c.Request.Context(), c.Param("ticker"), hours)
	if err != nil {
		log.Errorf("hourly price history query failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": c.Param("ticker"), "history": samples})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil && v > 0 {
		return v
	}
	return fallback
}
