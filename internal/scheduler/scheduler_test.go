package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New("not a cron spec", "x", func() {})
	assert.Error(t, err)
}

func TestJobStatus(t *testing.T) {
	job, err := New("5 9-17 * * 1-5", "price_capture", func() {})
	require.NoError(t, err)
	defer job.Stop()

	st := job.Status()
	assert.Equal(t, "price_capture", st.Name)
	assert.True(t, st.Running)
	assert.Nil(t, st.LastRun, "never ran yet")
	assert.True(t, st.NextRun.After(time.Now()))
}

func TestJobRuns(t *testing.T) {
	ran := make(chan struct{}, 1)
	// Seconds-less specs fire at most once a minute; use the @every form to
	// keep the test fast.
	job, err := New("@every 10ms", "fast", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer job.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job never fired")
	}

	st := job.Status()
	require.NotNil(t, st.LastRun)
	assert.WithinDuration(t, time.Now().UTC(), *st.LastRun, 5*time.Second)
}
