package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	t.Run("skipped events", func(t *testing.T) {
		before := testutil.ToFloat64(skippedEventsCounter.WithLabelValues("Deposit", "validation"))
		IncSkippedEvents("Deposit", "validation")
		after := testutil.ToFloat64(skippedEventsCounter.WithLabelValues("Deposit", "validation"))
		assert.Equal(t, before+1, after)
	})
	t.Run("protocol stats", func(t *testing.T) {
		RecordProtocolStats(7, 3)
		assert.Equal(t, float64(7), testutil.ToFloat64(loansOriginatedGauge))
		assert.Equal(t, float64(3), testutil.ToFloat64(uniqueBorrowersGauge))
	})
	t.Run("last processed block", func(t *testing.T) {
		RecordLastProcessedBlock(42)
		assert.Equal(t, float64(42), testutil.ToFloat64(lastProcessedBlockGauge))
	})
	t.Run("poller duration keeps error", func(t *testing.T) {
		errPoll := errors.New("poll failed")
		f := RecordPollerDuration("test", func(ctx context.Context) error {
			return errPoll
		})
		require.ErrorIs(t, f(t.Context()), errPoll)
	})
	t.Run("db latency", func(t *testing.T) {
		// must not panic without Init
		RecordDbLatency(time.Millisecond, "Ping", false)
		RecordEventProcessingDuration(time.Millisecond, "Deposit", 0, true)
	})
}
