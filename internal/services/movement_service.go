package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmarchand/folio/internal/models"
	"github.com/tmarchand/folio/internal/repository"
	"github.com/tmarchand/folio/internal/util"
)

// ErrUnknownRange is returned for an unrecognized movement range key.
var ErrUnknownRange = errors.New("unknown range key")

// MovementService answers "how did the portfolio move over range R" by
// combining persisted snapshot anchors with a live recomputation of the
// current value. It is stateless per call.
type MovementService struct {
	snapshotRepo *repository.SnapshotRepository
	holdingRepo  *repository.HoldingRepository
}

// NewMovementService creates a new MovementService
func NewMovementService(snapshotRepo *repository.SnapshotRepository, holdingRepo *repository.HoldingRepository) *MovementService {
	return &MovementService{snapshotRepo: snapshotRepo, holdingRepo: holdingRepo}
}

// Movement resolves rangeKey (7d, 1m, 3m, ytd, all) and builds the movement
// series for a user. Points are strictly chronological; the series always ends
// with a synthetic "now" point recomputed live from active holdings, so it is
// current even between capture cycles. When the earliest in-window snapshot
// falls after the window start, the latest pre-window snapshot is prepended as
// a baseline so percentage math anchors to the state at the start of the
// window, not the first sample inside it.
func (s *MovementService) Movement(ctx context.Context, userID, rangeKey string) (*models.MovementResponse, error) {
	now := time.Now().UTC()
	start, bounded, err := util.RangeStart(rangeKey, now)
	if err != nil {
		return nil, ErrUnknownRange
	}

	var snaps []models.PortfolioSnapshot
	if bounded {
		snaps, err = s.snapshotRepo.ListSince(ctx, userID, start)
	} else {
		snaps, err = s.snapshotRepo.ListAll(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	var points []models.MovementPoint
	if len(snaps) == 0 {
		// No snapshots in the window: fall back to the single latest
		// snapshot before now, or an empty series when none exists.
		latest, err := s.snapshotRepo.LatestBefore(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			points = append(points, models.MovementPoint{Timestamp: latest.CapturedAt, Value: latest.TotalValue})
		}
	} else {
		if bounded && snaps[0].CapturedAt.After(start) {
			anchor, err := s.snapshotRepo.LatestBefore(ctx, userID, start)
			if err != nil {
				return nil, err
			}
			if anchor != nil {
				points = append(points, models.MovementPoint{
					Timestamp: anchor.CapturedAt,
					Value:     anchor.TotalValue,
					Synthetic: true,
				})
			}
		}
		for _, snap := range snaps {
			points = append(points, models.MovementPoint{Timestamp: snap.CapturedAt, Value: snap.TotalValue})
		}
	}

	holdings, err := s.holdingRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	currentValue := decimal.Zero
	totalContribution := decimal.Zero
	for i := range holdings {
		currentValue = currentValue.Add(ValueOf(&holdings[i], nil))
		totalContribution = totalContribution.Add(holdings[i].Contribution)
	}
	points = append(points, models.MovementPoint{Timestamp: now, Value: currentValue, Synthetic: true})

	baseline := points[0].Value
	change := currentValue.Sub(totalContribution)
	var changePercent decimal.NullDecimal
	if !totalContribution.IsZero() {
		changePercent = decimal.NullDecimal{
			Decimal: change.Div(totalContribution).Mul(decimal.NewFromInt(100)),
			Valid:   true,
		}
	}

	return &models.MovementResponse{
		Range:         rangeKey,
		CurrentValue:  currentValue,
		BaselineValue: baseline,
		Change:        change,
		ChangePercent: changePercent,
		Points:        points,
	}, nil
}
