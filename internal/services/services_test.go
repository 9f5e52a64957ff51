package services

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/tmarchand/folio/internal/database"
	"github.com/tmarchand/folio/internal/repository"
)

type testEnv struct {
	holdingRepo  *repository.HoldingRepository
	priceRepo    *repository.PriceRepository
	snapshotRepo *repository.SnapshotRepository
	userRepo     *repository.UserRepository
	portfolioSvc *PortfolioService
	historySvc   *HistoryService
	movementSvc  *MovementService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{
		holdingRepo:  repository.NewHoldingRepository(db, log),
		priceRepo:    repository.NewPriceRepository(db, log),
		snapshotRepo: repository.NewSnapshotRepository(db, log),
		userRepo:     repository.NewUserRepository(db, log),
	}
	env.portfolioSvc = NewPortfolioService(env.holdingRepo, env.priceRepo, env.snapshotRepo, env.userRepo)
	env.historySvc = NewHistoryService(env.holdingRepo, env.priceRepo)
	env.movementSvc = NewMovementService(env.snapshotRepo, env.holdingRepo)
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
