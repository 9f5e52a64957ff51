package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketKeys(t *testing.T) {
	ts := time.Date(2026, 8, 20, 14, 37, 59, 0, time.UTC)
	assert.Equal(t, "2026-08-20", DayKey(ts))
	assert.Equal(t, "2026-08-20 14:00", HourKey(ts))

	// Keys are always UTC regardless of the input zone.
	est := time.FixedZone("EST", -5*60*60)
	assert.Equal(t, "2026-08-21", DayKey(time.Date(2026, 8, 20, 22, 0, 0, 0, est)))
}

func TestRangeStart(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	start, bounded, err := RangeStart("7d", now)
	require.NoError(t, err)
	assert.True(t, bounded)
	assert.Equal(t, time.Date(2026, 8, 13, 12, 0, 0, 0, time.UTC), start)

	start, _, err = RangeStart("1m", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 20, 12, 0, 0, 0, time.UTC), start)

	start, _, err = RangeStart("3m", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC), start)

	start, _, err = RangeStart("ytd", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), start)

	_, bounded, err = RangeStart("all", now)
	require.NoError(t, err)
	assert.False(t, bounded)

	_, _, err = RangeStart("2y", now)
	assert.Error(t, err)
}

func TestIsMarketOpen(t *testing.T) {
	// Wednesday 2026-08-19 15:00 UTC is 11AM Eastern.
	assert.True(t, IsMarketOpen(time.Date(2026, 8, 19, 15, 0, 0, 0, time.UTC)))
	// Wednesday 02:00 UTC is Tuesday 10PM Eastern.
	assert.False(t, IsMarketOpen(time.Date(2026, 8, 19, 2, 0, 0, 0, time.UTC)))
	// Saturday.
	assert.False(t, IsMarketOpen(time.Date(2026, 8, 22, 15, 0, 0, 0, time.UTC)))
}
