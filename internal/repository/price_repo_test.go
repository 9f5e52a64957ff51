package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeTicker("  aapl "))
	assert.Equal(t, "BRK.B", NormalizeTicker("brk.b"))
	assert.Equal(t, "", NormalizeTicker("   "))
}

func TestUpsertDailyIsIdempotent(t *testing.T) {
	repo := NewPriceRepository(newTestDB(t), testLogger())
	ctx := context.Background()
	day := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertDaily(ctx, "aapl", dec("100.50"), day, day))
	require.NoError(t, repo.UpsertDaily(ctx, "AAPL", dec("101.25"), day, day.Add(time.Hour)))

	samples, err := repo.QueryDaily(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, samples, 1, "second write for the same day must overwrite, not append")
	assert.Equal(t, "AAPL", samples[0].Ticker)
	assert.Equal(t, "2026-08-20", samples[0].Date)
	assert.True(t, samples[0].Price.Equal(dec("101.25")))
}

func TestUpsertDailySeparateDays(t *testing.T) {
	repo := NewPriceRepository(newTestDB(t), testLogger())
	ctx := context.Background()
	day1 := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	require.NoError(t, repo.UpsertDaily(ctx, "AAPL", dec("100"), day1, day1))
	require.NoError(t, repo.UpsertDaily(ctx, "AAPL", dec("102"), day2, day2))

	samples, err := repo.QueryDaily(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	// Newest first.
	assert.Equal(t, "2026-08-20", samples[0].Date)
	assert.Equal(t, "2026-08-19", samples[1].Date)
}

func TestUpsertHourlyDeduplicatesExactTimestamp(t *testing.T) {
	repo := NewPriceRepository(newTestDB(t), testLogger())
	ctx := context.Background()
	ts := time.Date(2026, 8, 20, 14, 30, 15, 987654321, time.UTC)

	// Sub-second jitter truncates to the same stored timestamp.
	require.NoError(t, repo.UpsertHourly(ctx, "AAPL", dec("100"), ts))
	require.NoError(t, repo.UpsertHourly(ctx, "AAPL", dec("101"), ts.Add(500*time.Millisecond)))

	samples, err := repo.QueryHourly(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.True(t, samples[0].Price.Equal(dec("101")))

	require.NoError(t, repo.UpsertHourly(ctx, "AAPL", dec("102"), ts.Add(time.Hour)))
	samples, err = repo.QueryHourly(ctx, "AAPL", 10)
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestSeedIfAbsent(t *testing.T) {
	repo := NewPriceRepository(newTestDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.SeedIfAbsent(ctx, "AAPL", dec("100"), true, false))
	samples, err := repo.QueryDaily(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, samples, 1)

	// A second seed never overwrites existing history.
	require.NoError(t, repo.SeedIfAbsent(ctx, "AAPL", dec("999"), true, false))
	samples, err = repo.QueryDaily(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.True(t, samples[0].Price.Equal(dec("100")))
}

func TestSeedIfAbsentRespectsFlags(t *testing.T) {
	repo := NewPriceRepository(newTestDB(t), testLogger())
	ctx := context.Background()

	require.NoError(t, repo.SeedIfAbsent(ctx, "UNTRACKED", dec("10"), false, false))
	require.NoError(t, repo.SeedIfAbsent(ctx, "MANUAL", dec("10"), true, true))
	require.NoError(t, repo.SeedIfAbsent(ctx, "   ", dec("10"), true, false))

	for _, sym := range []string{"UNTRACKED", "MANUAL"} {
		samples, err := repo.QueryDaily(ctx, sym, 10)
		require.NoError(t, err)
		assert.Empty(t, samples, "%s must not be seeded", sym)
	}
}

func TestRangeDailyOrdering(t *testing.T) {
	repo := NewPriceRepository(newTestDB(t), testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.UpsertDaily(ctx, "MSFT", dec("300"), now.AddDate(0, 0, -1), now))
	require.NoError(t, repo.UpsertDaily(ctx, "AAPL", dec("101"), now, now))
	require.NoError(t, repo.UpsertDaily(ctx, "AAPL", dec("100"), now.AddDate(0, 0, -2), now))

	samples, err := repo.RangeDaily(ctx, 7)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	// Ticker then date ascending.
	assert.Equal(t, "AAPL", samples[0].Ticker)
	assert.Equal(t, "AAPL", samples[1].Ticker)
	assert.Equal(t, "MSFT", samples[2].Ticker)
	assert.Less(t, samples[0].Date, samples[1].Date)
}
