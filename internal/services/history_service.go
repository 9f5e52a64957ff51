package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmarchand/folio/internal/models"
	"github.com/tmarchand/folio/internal/repository"
	"github.com/tmarchand/folio/internal/util"
)

// HistoryService reconstructs point-in-time portfolio values by joining the
// latest-version holdings snapshot against stored price samples.
type HistoryService struct {
	holdingRepo *repository.HoldingRepository
	priceRepo   *repository.PriceRepository
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(holdingRepo *repository.HoldingRepository, priceRepo *repository.PriceRepository) *HistoryService {
	return &HistoryService{holdingRepo: holdingRepo, priceRepo: priceRepo}
}

// PricePoint is one price observation aligned to a reconstruction bucket.
type PricePoint struct {
	Ticker    string
	Bucket    string
	Price     decimal.Decimal
	WrittenAt time.Time
}

// Daily reconstructs the portfolio value series over the last N days.
func (s *HistoryService) Daily(ctx context.Context, userID string, days int) (*models.HistoryResponse, error) {
	holdings, err := s.holdingRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	samples, err := s.priceRepo.RangeDaily(ctx, days)
	if err != nil {
		return nil, err
	}

	points := make([]PricePoint, 0, len(samples))
	for _, p := range samples {
		points = append(points, PricePoint{
			Ticker:    p.Ticker,
			Bucket:    p.Date,
			Price:     p.Price,
			WrittenAt: p.UpdatedAt,
		})
	}

	series, byType := Reconstruct(holdings, points, days)
	return &models.HistoryResponse{Granularity: "daily", Series: series, ByAccountType: byType}, nil
}

// Hourly reconstructs the portfolio value series over the last N hours,
// bucketing samples to the hour they were captured in.
func (s *HistoryService) Hourly(ctx context.Context, userID string, hours int) (*models.HistoryResponse, error) {
	holdings, err := s.holdingRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	samples, err := s.priceRepo.RangeHourly(ctx, hours)
	if err != nil {
		return nil, err
	}

	points := make([]PricePoint, 0, len(samples))
	for _, p := range samples {
		points = append(points, PricePoint{
			Ticker:    p.Ticker,
			Bucket:    util.HourKey(p.Timestamp),
			Price:     p.Price,
			WrittenAt: p.Timestamp,
		})
	}

	series, byType := Reconstruct(holdings, points, hours)
	return &models.HistoryResponse{Granularity: "hourly", Series: series, ByAccountType: byType}, nil
}

type tickerBucket struct {
	ticker string
	bucket string
}

// Reconstruct joins active holdings against price points and produces the
// per-bucket total series plus a per-account-type breakdown, truncated to the
// most recent maxBuckets buckets.
//
// Only buckets that have at least one price sample appear in the output; the
// reconstruction is sparse, not forward-filled. On duplicate (ticker, bucket)
// points the latest write wins, which covers rows written before the storage
// unique constraint existed.
func Reconstruct(holdings []models.HoldingVersion, points []PricePoint, maxBuckets int) ([]models.SeriesPoint, []models.AccountTypeSeries) {
	prices := make(map[tickerBucket]PricePoint, len(points))
	bucketSet := make(map[string]struct{})
	for _, p := range points {
		key := tickerBucket{ticker: repository.NormalizeTicker(p.Ticker), bucket: p.Bucket}
		if prev, ok := prices[key]; !ok || p.WrittenAt.After(prev.WrittenAt) {
			prices[key] = p
		}
		bucketSet[p.Bucket] = struct{}{}
	}

	buckets := make([]string, 0, len(bucketSet))
	for b := range bucketSet {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)
	if maxBuckets > 0 && len(buckets) > maxBuckets {
		buckets = buckets[len(buckets)-maxBuckets:]
	}

	series := make([]models.SeriesPoint, 0, len(buckets))
	perType := make(map[string][]models.SeriesPoint)
	for _, bucket := range buckets {
		total := decimal.Zero
		typeTotals := make(map[string]decimal.Decimal)
		for i := range holdings {
			h := &holdings[i]
			var historical *decimal.Decimal
			sym := repository.NormalizeTicker(h.LookupSymbol())
			if sym != "" {
				if p, ok := prices[tickerBucket{ticker: sym, bucket: bucket}]; ok {
					price := p.Price
					historical = &price
				}
			}
			v := ValueOf(h, historical)
			total = total.Add(v)
			typeTotals[h.AccountType] = typeTotals[h.AccountType].Add(v)
		}
		series = append(series, models.SeriesPoint{Bucket: bucket, Value: total})
		for accountType, v := range typeTotals {
			perType[accountType] = append(perType[accountType], models.SeriesPoint{Bucket: bucket, Value: v})
		}
	}

	accountTypes := make([]string, 0, len(perType))
	for t := range perType {
		accountTypes = append(accountTypes, t)
	}
	sort.Strings(accountTypes)

	byType := make([]models.AccountTypeSeries, 0, len(accountTypes))
	for _, t := range accountTypes {
		byType = append(byType, models.AccountTypeSeries{AccountType: t, Points: perType[t]})
	}
	return series, byType
}

// History dispatches on granularity for the HTTP surface.
func (s *HistoryService) History(ctx context.Context, userID, granularity string, span int) (*models.HistoryResponse, error) {
	switch granularity {
	case "", "daily":
		return s.Daily(ctx, userID, span)
	case "hourly":
		return s.Hourly(ctx, userID, span)
	default:
		return nil, fmt.Errorf("%w: granularity %q", ErrInvalidInput, granularity)
	}
}
