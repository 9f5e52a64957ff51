package services

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tmarchand/folio/internal/cache"
	"github.com/tmarchand/folio/internal/models"
	"github.com/tmarchand/folio/internal/oracle"
	"github.com/tmarchand/folio/internal/repository"
)

// How many oracle fetches run at once during a capture cycle.
const captureFetchLimit = 4

// CaptureService records price samples for every tracked ticker and appends a
// portfolio snapshot per user. It is invoked on a cadence by the scheduler and
// manually through the capture endpoint.
type CaptureService struct {
	holdingRepo  *repository.HoldingRepository
	priceRepo    *repository.PriceRepository
	userRepo     *repository.UserRepository
	portfolioSvc *PortfolioService
	oracle       *oracle.Client
	quotes       *cache.QuoteCache
}

// NewCaptureService creates a new CaptureService
func NewCaptureService(
	holdingRepo *repository.HoldingRepository,
	priceRepo *repository.PriceRepository,
	userRepo *repository.UserRepository,
	portfolioSvc *PortfolioService,
	oracleClient *oracle.Client,
	quotes *cache.QuoteCache,
) *CaptureService {
	return &CaptureService{
		holdingRepo:  holdingRepo,
		priceRepo:    priceRepo,
		userRepo:     userRepo,
		portfolioSvc: portfolioSvc,
		oracle:       oracleClient,
		quotes:       quotes,
	}
}

// FetchQuote resolves a quote through the TTL cache, hitting the oracle on a
// miss. The manual fetch-price endpoint shares this path with capture cycles.
func (s *CaptureService) FetchQuote(ctx context.Context, symbol string) (*oracle.Quote, error) {
	sym := repository.NormalizeTicker(symbol)
	if q, ok := s.quotes.Get(sym); ok {
		return &q, nil
	}
	q, err := s.oracle.GetQuote(ctx, sym)
	if err != nil {
		return nil, err
	}
	s.quotes.Set(sym, *q)
	return q, nil
}

// FetchAndRecord fetches one symbol and stores a daily and an hourly sample.
// Used by the manual fetch-price endpoint.
func (s *CaptureService) FetchAndRecord(ctx context.Context, symbol string) (*oracle.Quote, error) {
	q, err := s.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.priceRepo.UpsertDaily(ctx, q.Symbol, q.Price, now, now); err != nil {
		return nil, err
	}
	if err := s.priceRepo.UpsertHourly(ctx, q.Symbol, q.Price, now); err != nil {
		return nil, err
	}
	return q, nil
}

// CaptureNow fetches prices for the distinct tracked lookup symbols across all
// active holdings, upserts daily and hourly samples, then appends one snapshot
// per user scope, the unscoped (empty id) portfolio included. A failed fetch
// skips that symbol; it does not abort the cycle. Returns the number of
// symbols captured.
func (s *CaptureService) CaptureNow(ctx context.Context) (int, error) {
	holdings, err := s.holdingRepo.ListActive(ctx, "")
	if err != nil {
		return 0, err
	}
	symbols := captureTargets(holdings)

	var mu sync.Mutex
	captured := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(captureFetchLimit)
	for _, sym := range symbols {
		sym := sym
		g.Go(func() error {
			q, err := s.FetchQuote(gctx, sym)
			if err != nil {
				log.Warnf("capture: failed to fetch %s: %v", sym, err)
				return nil
			}
			now := time.Now().UTC()
			if err := s.priceRepo.UpsertDaily(gctx, sym, q.Price, now, now); err != nil {
				return err
			}
			if err := s.priceRepo.UpsertHourly(gctx, sym, q.Price, now); err != nil {
				return err
			}
			mu.Lock()
			captured++
			mu.Unlock()
			log.Infof("capture: %s at %s", sym, q.Price)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return captured, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return captured, err
	}
	scopes := make(map[string]struct{}, len(users))
	for _, u := range users {
		scopes[u.UserID] = struct{}{}
	}
	// Holdings created without a user carry an empty id; that unscoped
	// portfolio never has a user_info row but still needs its snapshot.
	for i := range holdings {
		scopes[holdings[i].UserID] = struct{}{}
	}

	at := time.Now().UTC()
	for scope := range scopes {
		if _, err := s.portfolioSvc.CaptureSnapshot(ctx, scope, at); err != nil {
			log.Warnf("capture: failed to snapshot user %q: %v", scope, err)
		}
	}

	log.Infof("capture complete: %d of %d symbols", captured, len(symbols))
	return captured, nil
}

// captureTargets extracts the distinct normalized lookup symbols worth
// fetching: tracked, not manually overridden, and actually quotable.
func captureTargets(holdings []models.HoldingVersion) []string {
	seen := make(map[string]struct{})
	var symbols []string
	for i := range holdings {
		h := &holdings[i]
		if !h.TrackPrice || h.ManualPriceOverride || h.IsCash() {
			continue
		}
		sym := repository.NormalizeTicker(h.LookupSymbol())
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	return symbols
}
