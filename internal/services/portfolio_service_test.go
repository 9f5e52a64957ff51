package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarchand/folio/internal/models"
	"github.com/tmarchand/folio/internal/repository"
)

func holdingInput(name string) models.HoldingInput {
	return models.HoldingInput{
		AccountType:  "TFSA",
		Account:      "Broker",
		Ticker:       "AAPL",
		Name:         name,
		Category:     "stock",
		Shares:       dec("10"),
		Cost:         dec("100"),
		CurrentPrice: dec("120"),
		TrackPrice:   true,
	}
}

func TestCreateHoldingValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	missing := holdingInput("Apple")
	missing.Account = "  "
	_, err := env.portfolioSvc.CreateHolding(ctx, missing)
	assert.ErrorIs(t, err, ErrInvalidInput)

	negative := holdingInput("Apple")
	negative.Shares = dec("-1")
	_, err = env.portfolioSvc.CreateHolding(ctx, negative)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateHoldingSeedsPriceHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.portfolioSvc.CreateHolding(ctx, holdingInput("Apple"))
	require.NoError(t, err)

	samples, err := env.priceRepo.QueryDaily(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.True(t, samples[0].Price.Equal(dec("120")))
}

func TestCreateHoldingEnsuresUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := holdingInput("Apple")
	in.UserID = "alice"
	_, err := env.portfolioSvc.CreateHolding(ctx, in)
	require.NoError(t, err)

	u, err := env.userRepo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserID)
}

func TestUpdateAndHistoryByRowID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rowID, err := env.portfolioSvc.CreateHolding(ctx, holdingInput("Apple"))
	require.NoError(t, err)

	updated := holdingInput("Apple")
	updated.Shares = dec("12")
	newRowID, err := env.portfolioSvc.UpdateHolding(ctx, rowID, updated)
	require.NoError(t, err)

	// History is reachable through either row id, newest first.
	for _, id := range []int64{rowID, newRowID} {
		history, err := env.portfolioSvc.HistoryByRowID(ctx, id)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.True(t, history[0].Shares.Equal(dec("12")))
	}

	_, err = env.portfolioSvc.HistoryByRowID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrHoldingNotFound)
}

func TestByAccountType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tfsa := holdingInput("Apple")
	rrsp := holdingInput("Bond")
	rrsp.AccountType = "RRSP"
	rrsp.Ticker = "BND"
	rrsp.Shares = dec("5")
	rrsp.Cost = dec("20")
	rrsp.CurrentPrice = dec("22")

	_, err := env.portfolioSvc.CreateHolding(ctx, tfsa)
	require.NoError(t, err)
	_, err = env.portfolioSvc.CreateHolding(ctx, rrsp)
	require.NoError(t, err)

	breakdown, err := env.portfolioSvc.ByAccountType(ctx, "")
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	byType := make(map[string]models.AccountTypeBreakdown)
	for _, b := range breakdown {
		byType[b.AccountType] = b
	}
	assert.True(t, byType["TFSA"].Value.Equal(dec("1200")))
	assert.True(t, byType["TFSA"].Contribution.Equal(dec("1000")))
	assert.True(t, byType["RRSP"].Value.Equal(dec("110")))
	assert.Equal(t, 1, byType["RRSP"].Count)
}

func TestCaptureSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := holdingInput("Apple")
	in.UserID = "alice"
	_, err := env.portfolioSvc.CreateHolding(ctx, in)
	require.NoError(t, err)

	at := time.Now().UTC()
	snap, err := env.portfolioSvc.CaptureSnapshot(ctx, "alice", at)
	require.NoError(t, err)
	assert.NotZero(t, snap.ID)
	assert.True(t, snap.TotalValue.Equal(dec("1200")))
	assert.True(t, snap.TotalContribution.Equal(dec("1000")))
	assert.True(t, snap.TotalGain.Equal(dec("200")))
	require.True(t, snap.TotalGainPercent.Valid)
	assert.True(t, snap.TotalGainPercent.Decimal.Equal(dec("20")))

	snaps, err := env.snapshotRepo.ListAll(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}
