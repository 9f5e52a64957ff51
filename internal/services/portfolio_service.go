package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/internal/models"
	"github.com/tmarchand/folio/internal/repository"
)

// ErrInvalidInput is returned for a holding payload that fails validation.
var ErrInvalidInput = errors.New("invalid input")

var hundred = decimal.NewFromInt(100)

// PortfolioService owns the holdings workflow: ledger writes with their price
// seeding side effects, the enriched holdings view, and snapshot capture.
type PortfolioService struct {
	holdingRepo  *repository.HoldingRepository
	priceRepo    *repository.PriceRepository
	snapshotRepo *repository.SnapshotRepository
	userRepo     *repository.UserRepository
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(
	holdingRepo *repository.HoldingRepository,
	priceRepo *repository.PriceRepository,
	snapshotRepo *repository.SnapshotRepository,
	userRepo *repository.UserRepository,
) *PortfolioService {
	return &PortfolioService{
		holdingRepo:  holdingRepo,
		priceRepo:    priceRepo,
		snapshotRepo: snapshotRepo,
		userRepo:     userRepo,
	}
}

func validateInput(in *models.HoldingInput) error {
	for field, v := range map[string]string{
		"account_type": in.AccountType,
		"account":      in.Account,
		"name":         in.Name,
		"category":     in.Category,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: missing required field %s", ErrInvalidInput, field)
		}
	}
	if in.Shares.IsNegative() {
		return fmt.Errorf("%w: shares must not be negative", ErrInvalidInput)
	}
	if in.CurrentPrice.IsNegative() {
		return fmt.Errorf("%w: current_price must not be negative", ErrInvalidInput)
	}
	return nil
}

// CreateHolding inserts version 1 of a new holding and seeds price history for
// its lookup symbol so tracked tickers always have at least one anchor sample.
func (s *PortfolioService) CreateHolding(ctx context.Context, in models.HoldingInput) (int64, error) {
	if err := validateInput(&in); err != nil {
		return 0, err
	}
	if in.UserID != "" {
		if err := s.userRepo.EnsureExists(ctx, in.UserID, in.UserID, ""); err != nil {
			return 0, err
		}
	}
	rowID, err := s.holdingRepo.Create(ctx, in)
	if err != nil {
		return 0, err
	}
	s.seedPrice(ctx, &in)
	return rowID, nil
}

// UpdateHolding appends a new version under the logical id owning rowID.
func (s *PortfolioService) UpdateHolding(ctx context.Context, rowID int64, in models.HoldingInput) (int64, error) {
	if err := validateInput(&in); err != nil {
		return 0, err
	}
	newRowID, err := s.holdingRepo.Update(ctx, rowID, in)
	if err != nil {
		return 0, err
	}
	s.seedPrice(ctx, &in)
	return newRowID, nil
}

// DeleteHolding tombstones every version of the holding owning rowID.
func (s *PortfolioService) DeleteHolding(ctx context.Context, rowID int64) error {
	return s.holdingRepo.Delete(ctx, rowID)
}

// HistoryByRowID resolves the logical id owning rowID and returns every
// version under it, newest first, deleted included.
func (s *PortfolioService) HistoryByRowID(ctx context.Context, rowID int64) ([]models.HoldingVersion, error) {
	h, err := s.holdingRepo.GetByRowID(ctx, rowID)
	if err != nil {
		return nil, err
	}
	return s.holdingRepo.ListHistory(ctx, h.HoldingID)
}

func (s *PortfolioService) seedPrice(ctx context.Context, in *models.HoldingInput) {
	sym := strings.TrimSpace(in.Lookup)
	if sym == "" {
		sym = strings.TrimSpace(in.Ticker)
	}
	if sym == "" {
		return
	}
	// Seeding failure is not fatal to the write that triggered it.
	if err := s.priceRepo.SeedIfAbsent(ctx, sym, in.CurrentPrice, in.TrackPrice, in.ManualPriceOverride); err != nil {
		log.Warnf("failed to seed price history for %s: %v", sym, err)
	}
}

// ListEnriched returns the active holdings with derived value and gain fields,
// plus the aggregate stats over them.
func (s *PortfolioService) ListEnriched(ctx context.Context, userID string) ([]models.EnrichedHolding, models.PortfolioStats, error) {
	holdings, err := s.holdingRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, models.PortfolioStats{}, err
	}
	enriched, stats := Enrich(holdings)
	return enriched, stats, nil
}

// Enrich computes the derived view of each holding and the portfolio stats.
// Computed fields live only on the view types, never written back.
func Enrich(holdings []models.HoldingVersion) ([]models.EnrichedHolding, models.PortfolioStats) {
	totalValue := decimal.Zero
	totalContribution := decimal.Zero
	values := make([]decimal.Decimal, len(holdings))
	for i := range holdings {
		values[i] = ValueOf(&holdings[i], nil)
		totalValue = totalValue.Add(values[i])
		totalContribution = totalContribution.Add(holdings[i].Contribution)
	}

	enriched := make([]models.EnrichedHolding, 0, len(holdings))
	for i := range holdings {
		h := holdings[i]
		value := values[i]
		gain := value.Sub(h.Contribution)

		e := models.EnrichedHolding{
			HoldingVersion: h,
			Value:          value,
			AbsoluteGain:   gain,
			DollarChange:   gain,
		}
		if !totalValue.IsZero() {
			e.PortfolioPercent = value.Div(totalValue).Mul(hundred)
		}
		if !h.Contribution.IsZero() {
			e.RelativeGain = decimal.NullDecimal{Decimal: gain.Div(h.Contribution).Mul(hundred), Valid: true}
		}
		if !h.Cost.IsZero() {
			e.PercentChange = decimal.NullDecimal{
				Decimal: h.CurrentPrice.Sub(h.Cost).Div(h.Cost).Mul(hundred),
				Valid:   true,
			}
		}
		enriched = append(enriched, e)
	}

	stats := models.PortfolioStats{
		TotalValue:        totalValue,
		TotalContribution: totalContribution,
		TotalGain:         totalValue.Sub(totalContribution),
		HoldingsCount:     len(holdings),
	}
	if !totalContribution.IsZero() {
		stats.TotalGainPercent = decimal.NullDecimal{
			Decimal: stats.TotalGain.Div(totalContribution).Mul(hundred),
			Valid:   true,
		}
	}
	return enriched, stats
}

// ByAccountType aggregates the active holdings' value and contribution per
// account type.
func (s *PortfolioService) ByAccountType(ctx context.Context, userID string) ([]models.AccountTypeBreakdown, error) {
	holdings, err := s.holdingRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var breakdown []models.AccountTypeBreakdown
	for i := range holdings {
		h := &holdings[i]
		j, ok := index[h.AccountType]
		if !ok {
			j = len(breakdown)
			index[h.AccountType] = j
			breakdown = append(breakdown, models.AccountTypeBreakdown{AccountType: h.AccountType})
		}
		breakdown[j].Value = breakdown[j].Value.Add(ValueOf(h, nil))
		breakdown[j].Contribution = breakdown[j].Contribution.Add(h.Contribution)
		breakdown[j].Count++
	}
	return breakdown, nil
}

// CaptureSnapshot appends one portfolio-level aggregate row for the user,
// valued live from the active holdings.
func (s *PortfolioService) CaptureSnapshot(ctx context.Context, userID string, at time.Time) (*models.PortfolioSnapshot, error) {
	holdings, err := s.holdingRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	_, stats := Enrich(holdings)

	snap := &models.PortfolioSnapshot{
		UserID:            userID,
		CapturedAt:        at.UTC(),
		TotalValue:        stats.TotalValue,
		TotalContribution: stats.TotalContribution,
		TotalGain:         stats.TotalGain,
		TotalGainPercent:  stats.TotalGainPercent,
	}
	if err := s.snapshotRepo.Append(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
